// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"os"

	"github.com/tripled-dev/tripled/internal/store"
	"github.com/tripled-dev/tripled/internal/store/sqlite"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// openReadOnly opens an existing database for introspection. Unlike the
// ingest path it refuses to create a missing file, which would silently
// turn a mistyped path into an empty store.
func openReadOnly(path string) (*sqlite.Store, error) {
	if path == "" {
		return nil, triplederr.New(triplederr.CodeCLIInputInvalid, "no database configured; pass --db or set storage.path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeStorageUnavailable, "database not found", triplederr.FieldPath(path))
	}
	return sqlite.Open(sqlite.Config{Path: path, Indexing: store.IndexingSkip})
}
