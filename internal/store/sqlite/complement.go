// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"context"
	"strings"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// ComplementaryEntities computes the filter sets for one batch: every
// distinct object completing some (subject, predicate) pair of the batch,
// and every distinct subject completing some (predicate, object) pair.
// Callers build filtered corruption pools from these; the two sets are
// returned as-is, without cross-deduplication.
func (s *Store) ComplementaryEntities(ctx context.Context, triples []store.Triple) (store.FilterSets, error) {
	if len(triples) == 0 {
		return store.FilterSets{}, nil
	}

	subjects := make([]int64, len(triples))
	predicates := make([]int64, len(triples))
	objects := make([]int64, len(triples))
	for i, t := range triples {
		subjects[i] = t.Subject
		predicates[i] = t.Predicate
		objects[i] = t.Object
	}

	var out store.FilterSets
	var err error

	// The (subject, predicate) index serves this one.
	out.Objects, err = s.selectDistinct(ctx,
		`SELECT DISTINCT object FROM triples WHERE subject IN (%s) AND predicate IN (%s)`,
		subjects, predicates)
	if err != nil {
		return store.FilterSets{}, err
	}

	// And the (predicate, object) index this one.
	out.Subjects, err = s.selectDistinct(ctx,
		`SELECT DISTINCT subject FROM triples WHERE predicate IN (%s) AND object IN (%s)`,
		predicates, objects)
	if err != nil {
		return store.FilterSets{}, err
	}

	return out, nil
}

// TriplesBetween returns the stored triples linking two entity sets in
// either direction: subject in one set and object in the other. With only
// f.Entities given, the one set stands on both sides, yielding every
// stored edge between those entities.
func (s *Store) TriplesBetween(ctx context.Context, f store.EntityFilter) ([]store.Triple, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	left, right := f.Subjects, f.Objects
	if len(left) == 0 && len(right) == 0 {
		left, right = f.Entities, f.Entities
	}

	q := `SELECT subject, predicate, object FROM triples
WHERE (subject IN (` + placeholders(len(left)) + `) AND object IN (` + placeholders(len(right)) + `))
   OR (subject IN (` + placeholders(len(right)) + `) AND object IN (` + placeholders(len(left)) + `))`

	args := make([]any, 0, 2*(len(left)+len(right)))
	args = appendInt64s(args, left)
	args = appendInt64s(args, right)
	args = appendInt64s(args, right)
	args = appendInt64s(args, left)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "querying triples between entities",
			triplederr.FieldTable(tableTriples))
	}
	defer func() { _ = rows.Close() }()

	return scanTriples(rows)
}

// selectDistinct runs one of the two complementary-entity queries. The
// format string carries two IN-list slots.
func (s *Store) selectDistinct(ctx context.Context, format string, first, second []int64) ([]int64, error) {
	q := strings.Replace(format, "%s", placeholders(len(first)), 1)
	q = strings.Replace(q, "%s", placeholders(len(second)), 1)

	args := make([]any, 0, len(first)+len(second))
	args = appendInt64s(args, first)
	args = appendInt64s(args, second)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "querying complementary entities",
			triplederr.FieldTable(tableTriples))
	}
	defer func() { _ = rows.Close() }()

	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "scanning entity id")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "iterating entity ids")
	}
	return out, nil
}

func placeholders(n int) string {
	if n == 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendInt64s(args []any, vals []int64) []any {
	for _, v := range vals {
		args = append(args, v)
	}
	return args
}
