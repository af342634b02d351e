// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Count returns the total number of stored triples. The boolean reports
// whether the table existed: a cleaned-up store counts as zero rows with
// ok=false, which is a normal empty result, not an error.
func (s *Store) Count(ctx context.Context) (int64, bool, error) {
	return s.CountWhere(ctx, "")
}

// CountPartition returns the number of triples in one partition.
func (s *Store) CountPartition(ctx context.Context, p store.Partition) (int64, bool, error) {
	return s.countQuery(ctx, `SELECT count(*) FROM triples WHERE partition = ?`, string(p))
}

// CountWhere counts rows matching a raw SQL condition ("subject > 3").
// A malformed condition is a hard failure, unlike a missing table.
func (s *Store) CountWhere(ctx context.Context, condition string) (int64, bool, error) {
	q := `SELECT count(*) FROM triples`
	if condition != "" {
		q += " WHERE " + condition
	}
	return s.countQuery(ctx, q)
}

func (s *Store) countQuery(ctx context.Context, q string, args ...any) (int64, bool, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		if isMissingTable(err) {
			return 0, false, nil
		}
		return 0, false, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "counting rows",
			triplederr.FieldTable(tableTriples), triplederr.FieldStatement(q))
	}
	return n, true, nil
}

func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}

// Summary describes the database file, its tables, their columns, one
// example row per table, and the row counts. Purely presentational.
func (s *Store) Summary(ctx context.Context) (*store.Summary, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageUnavailable, "stat database file", triplederr.FieldPath(s.path))
	}
	sum := &store.Summary{Path: s.path, FileSize: info.Size()}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "listing tables")
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "scanning table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "iterating table names")
	}

	for _, name := range names {
		table, err := s.summarizeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		sum.Tables = append(sum.Tables, *table)
		sum.TotalRows += table.Rows
	}
	return sum, nil
}

func (s *Store) summarizeTable(ctx context.Context, name string) (*store.TableSummary, error) {
	table := &store.TableSummary{Name: name}

	cols, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(name)))
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "reading table info", triplederr.FieldTable(name))
	}
	defer func() { _ = cols.Close() }()

	for cols.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			deflt      any
			primaryKey int
		)
		if err := cols.Scan(&cid, &colName, &colType, &notNull, &deflt, &primaryKey); err != nil {
			return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "scanning column info", triplederr.FieldTable(name))
		}
		table.Columns = append(table.Columns, store.Column{Name: colName, Type: colType})
	}
	if err := cols.Err(); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "iterating column info", triplederr.FieldTable(name))
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, quoteIdent(name))).Scan(&count); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "counting rows", triplederr.FieldTable(name))
	}
	table.Rows = count

	if count > 0 {
		example, err := s.exampleRow(ctx, name, len(table.Columns))
		if err != nil {
			return nil, err
		}
		table.Example = example
	}
	return table, nil
}

func (s *Store) exampleRow(ctx context.Context, name string, columns int) ([]string, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT * FROM %s LIMIT 1`, quoteIdent(name)))

	vals := make([]any, columns)
	ptrs := make([]any, columns)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "reading example row", triplederr.FieldTable(name))
	}

	out := make([]string, columns)
	for i, v := range vals {
		switch val := v.(type) {
		case nil:
			out[i] = ""
		case []byte:
			out[i] = string(val)
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
