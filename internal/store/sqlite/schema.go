// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"context"
	"errors"
	"log/slog"

	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// tableTriples is the one table this store owns. Subject, predicate, and
// object hold dense indices; partition is the dataset split label.
const tableTriples = "triples"

// schemaStatements returns the DDL in creation order: the table first, then
// the six secondary indexes that batch iteration and complementary-entity
// queries lean on.
func schemaStatements() []string {
	return []string{
		`CREATE TABLE triples (
	subject   INTEGER NOT NULL,
	predicate INTEGER NOT NULL,
	object    INTEGER NOT NULL,
	partition TEXT NOT NULL
)`,
		`CREATE INDEX idx_triples_sp ON triples(subject, predicate)`,
		`CREATE INDEX idx_triples_po ON triples(predicate, object)`,
		`CREATE INDEX idx_triples_partition ON triples(partition)`,
		`CREATE INDEX idx_triples_so ON triples(subject, object)`,
		`CREATE INDEX idx_triples_s ON triples(subject)`,
		`CREATE INDEX idx_triples_o ON triples(object)`,
	}
}

// cleanUpStatements returns the teardown DDL. Dropping the table takes its
// remaining indexes with it.
func cleanUpStatements() []string {
	return []string{
		`DROP INDEX IF EXISTS idx_triples_po`,
		`DROP INDEX IF EXISTS idx_triples_sp`,
		`DROP INDEX IF EXISTS idx_triples_partition`,
		`DROP TABLE IF EXISTS triples`,
	}
}

// createSchema applies the schema to a freshly created store. The first
// failure aborts and propagates; a store with half a schema is not usable.
func (s *Store) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "creating schema",
				triplederr.FieldStatement(stmt), triplederr.FieldTable(tableTriples))
		}
	}
	return nil
}

// Clean drops the schema best-effort: missing objects are no-ops, and a
// failing statement does not stop the remaining ones from being attempted.
// Real failures are reported together at the end.
func (s *Store) Clean(ctx context.Context) error {
	var errs []error
	for _, stmt := range cleanUpStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.Warn("cleanup statement failed",
				slog.String("statement", stmt),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return triplederr.Wrap(errors.Join(errs...), triplederr.CodeStorageQueryFailed, "cleanup incomplete", triplederr.FieldTable(tableTriples))
	}
	return nil
}
