// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// maxInsertRows caps the placeholder groups per statement. Four parameters
// per row keeps this far under SQLite's variable limit; chunks larger than
// this are split across several statements inside the same transaction, so
// chunk atomicity is unaffected.
const maxInsertRows = 500

// insertChunk writes one chunk of indexed triples inside tx. Either the
// whole chunk commits (when the surrounding Session does) or none of it is
// visible.
func insertChunk(ctx context.Context, tx *sql.Tx, partition store.Partition, rows []store.Triple) error {
	for start := 0; start < len(rows); start += maxInsertRows {
		end := min(start+maxInsertRows, len(rows))
		group := rows[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO triples (subject, predicate, object, partition) VALUES ")
		args := make([]any, 0, len(group)*4)
		for i, t := range group {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			args = append(args, t.Subject, t.Predicate, t.Object, string(partition))
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			code := triplederr.CodeStorageQueryFailed
			if isColumnMismatch(err) {
				code = triplederr.CodeStorageSchemaMismatch
			}
			return triplederr.Wrap(err, code, "inserting chunk rows", triplederr.FieldTable(tableTriples))
		}
	}
	return nil
}

// isColumnMismatch recognises the backend's complaints about a row shape
// that does not fit the live table.
func isColumnMismatch(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "values were supplied") ||
		strings.Contains(msg, "has no column named")
}

// checkSchema verifies the live table still has the four columns the
// writer produces. A store file created by something else entirely fails
// here rather than mid-insert.
func (s *Store) checkSchema(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(triples)`)
	if err != nil {
		return triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "reading table info", triplederr.FieldTable(tableTriples))
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			deflt      sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &deflt, &primaryKey); err != nil {
			return triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "scanning table info")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "reading table info")
	}

	want := []string{"subject", "predicate", "object", "partition"}
	if len(names) != len(want) {
		return triplederr.Errorf(triplederr.CodeStorageSchemaMismatch,
			"table %s has %d columns, writer produces %d", tableTriples, len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			return triplederr.Errorf(triplederr.CodeStorageSchemaMismatch,
				"table %s column %d is %q, want %q", tableTriples, i, names[i], name)
		}
	}
	return nil
}
