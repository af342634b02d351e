// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

// Package sqlite implements the triple store on a single SQLite file: one
// triples table, six secondary indexes, chunked bulk ingestion, and the
// batch iteration and complementary-entity queries embedding pipelines
// consume.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tripled-dev/tripled/internal/indexer"
	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Compile-time interface check.
var _ store.Reader = (*Store)(nil)

// Config configures a Store. Zero values fall back to sane defaults; only
// Path is required.
type Config struct {
	// Path is the database file. Created (with schema) when absent.
	Path string
	// ChunkSize is the number of rows written per transaction during
	// ingestion. Defaults to store.DefaultChunkSize.
	ChunkSize int
	// Indexing selects how raw identifiers become dense integers.
	// Defaults to store.IndexingBuild.
	Indexing store.IndexingMode
	// Indexer is the mapping to translate through. Required for
	// IndexingReuse (pre-built and frozen). Optional for IndexingBuild:
	// when set, the build pass fills this indexer (a badger-backed one
	// persists the mapping); when nil, a fresh in-memory indexer is used.
	Indexer store.Indexer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store is a triple store on one SQLite file. Exactly one physical
// connection is open per Store; there is no pooling and no internal
// locking beyond SQLite's own.
type Store struct {
	path      string
	db        *sql.DB
	logger    *slog.Logger
	chunkSize int
	mode      store.IndexingMode
	mapper    store.Indexer
}

// Open opens the database at cfg.Path, creating the file and applying the
// schema when it does not exist yet. Schema creation is a one-time event:
// an existing file is trusted to carry the schema it was created with.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, triplederr.New(triplederr.CodeStorageUnavailable, "database path is required")
	}
	mode := cfg.Indexing
	if mode == "" {
		mode = store.IndexingBuild
	}
	if !mode.Valid() {
		return nil, triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration, "unknown indexing mode %q", mode)
	}
	mapper := cfg.Indexer
	switch mode {
	case store.IndexingBuild:
		if mapper == nil {
			mapper = indexer.NewMemory()
		}
	case store.IndexingReuse:
		if mapper == nil {
			return nil, triplederr.New(triplederr.CodeStorageInvalidConfiguration, "reuse indexing requires a pre-built indexer")
		}
	case store.IndexingSkip:
		mapper = nil
	}
	chunkSize := cfg.ChunkSize
	if chunkSize < 1 {
		chunkSize = store.DefaultChunkSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Try the existing file first; fall back to create-and-apply-schema,
	// so the schema is only ever issued against a fresh store.
	db, err := connect(cfg.Path, "rw")
	if err != nil {
		db, err = connect(cfg.Path, "rwc")
		if err != nil {
			return nil, triplederr.Wrap(err, triplederr.CodeStorageUnavailable, "cannot open or create database", triplederr.FieldPath(cfg.Path))
		}
		s := &Store{path: cfg.Path, db: db, logger: logger, chunkSize: chunkSize, mode: mode, mapper: mapper}
		if err := s.createSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("database created", slog.String("path", cfg.Path))
		return s, nil
	}

	return &Store{path: cfg.Path, db: db, logger: logger, chunkSize: chunkSize, mode: mode, mapper: mapper}, nil
}

func connect(path, mode string) (*sql.DB, error) {
	dsn := "file:" + path + "?mode=" + mode + "&_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// One physical connection; the model is single-threaded, synchronous.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Session runs fn inside one transaction: commit when fn returns nil,
// rollback when it returns an error. The handle is released on every path.
func (s *Store) Session(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return triplederr.Wrap(err, triplederr.CodeStorageQueryFailed, "committing transaction")
	}
	return nil
}

// Indexer returns the mapping this store translates through. Nil in skip
// mode, and unfrozen in build mode until the first Populate.
func (s *Store) Indexer() store.Indexer {
	return s.mapper
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle. The indexer is owned by the caller
// when supplied and by nobody when defaulted, so it is not closed here.
func (s *Store) Close() error {
	return s.db.Close()
}

// Remove deletes the database file. Call after Close; a clean close has
// checkpointed the WAL, leaving only the main file behind.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return triplederr.Wrap(err, triplederr.CodeStorageUnavailable, "removing database file", triplederr.FieldPath(s.path))
	}
	s.logger.Info("database removed", slog.String("path", s.path))
	return nil
}
