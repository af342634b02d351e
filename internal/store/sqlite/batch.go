// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"context"
	"database/sql"
	"iter"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Batches returns a lazy, finite, single-use sequence of batches drawn
// from one partition. The batch count is floor(rowCount/batchSize),
// with the row count snapshotted when iteration starts: the iterator
// never yields more batches than that even if the partition grows
// underneath it, and every yielded batch holds exactly BatchSize triples.
//
// Random mode re-randomizes the ordering per page, so pages are not
// guaranteed disjoint; it is random ordering, not a partition shuffle
// without replacement. Non-random mode paginates deterministically and,
// with an OrderBy, keeps rows globally sorted across pages.
//
// Each page issues a fresh query; no lock is held between pages.
func (s *Store) Batches(ctx context.Context, opts store.BatchOptions) iter.Seq2[*store.Batch, error] {
	return func(yield func(*store.Batch, error) bool) {
		if err := opts.Validate(); err != nil {
			yield(nil, err)
			return
		}

		total, _, err := s.CountPartition(ctx, opts.Partition)
		if err != nil {
			yield(nil, err)
			return
		}
		batches := total / int64(opts.BatchSize)

		for page := int64(0); page < batches; page++ {
			batch, err := s.fetchPage(ctx, opts, page)
			if err != nil {
				yield(nil, err)
				return
			}
			if opts.WithFilter {
				filter, err := s.ComplementaryEntities(ctx, batch.Triples)
				if err != nil {
					yield(nil, err)
					return
				}
				batch.Filter = &filter
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

func (s *Store) fetchPage(ctx context.Context, opts store.BatchOptions, page int64) (*store.Batch, error) {
	q := `SELECT subject, predicate, object FROM triples WHERE partition = ?`
	if opts.Random {
		q += ` ORDER BY random()`
	} else {
		q += orderClause(opts.OrderBy)
	}
	q += ` LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, q, string(opts.Partition), opts.BatchSize, page*int64(opts.BatchSize))
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "fetching batch page",
			triplederr.FieldPartition(string(opts.Partition)), triplederr.FieldStatement(q))
	}
	defer func() { _ = rows.Close() }()

	triples, err := scanTriples(rows)
	if err != nil {
		return nil, err
	}
	return &store.Batch{Partition: opts.Partition, Ordinal: int(page), Triples: triples}, nil
}

// orderClause appends rowid as a tiebreaker so pagination over equal keys
// stays deterministic across pages.
func orderClause(o store.OrderBy) string {
	switch o {
	case store.OrderSubject:
		return ` ORDER BY subject, rowid`
	case store.OrderObject:
		return ` ORDER BY object, rowid`
	case store.OrderSubjectObject:
		return ` ORDER BY subject, object, rowid`
	default:
		return ``
	}
}

// Sample returns up to limit triples from one partition in insertion
// order. A read-only taste of the data for the introspection surface.
func (s *Store) Sample(ctx context.Context, p store.Partition, limit int) ([]store.Triple, error) {
	if limit < 1 {
		return nil, triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration, "sample: limit must be >= 1, got %d", limit)
	}
	const q = `SELECT subject, predicate, object FROM triples WHERE partition = ? LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, string(p), limit)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "sampling partition",
			triplederr.FieldPartition(string(p)))
	}
	defer func() { _ = rows.Close() }()

	return scanTriples(rows)
}

func scanTriples(rows *sql.Rows) ([]store.Triple, error) {
	var out []store.Triple
	for rows.Next() {
		var t store.Triple
		if err := rows.Scan(&t.Subject, &t.Predicate, &t.Object); err != nil {
			return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "scanning triple row")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "iterating triple rows")
	}
	return out, nil
}
