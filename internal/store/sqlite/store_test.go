// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripled-dev/tripled/internal/indexer"
	"github.com/tripled-dev/tripled/internal/source"
	"github.com/tripled-dev/tripled/internal/store"
	"github.com/tripled-dev/tripled/internal/store/sqlite"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func TestOpen_CreatesDatabaseWithSchema(t *testing.T) {
	ctx := context.Background()
	db := testDBPath(t, "create")

	s, err := sqlite.Open(sqlite.Config{Path: db})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = os.Stat(db)
	require.NoError(t, err, "database file should exist after Open")

	n, ok, err := s.Count(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "triples table should exist in a fresh store")
	assert.Zero(t, n)
}

func TestOpen_ReopensExistingFile(t *testing.T) {
	ctx := context.Background()
	db := testDBPath(t, "reopen")

	s, err := sqlite.Open(sqlite.Config{Path: db, Indexing: store.IndexingSkip})
	require.NoError(t, err)
	_, err = s.Populate(ctx, source.FromRows([]store.RawTriple{
		{"1", "0", "2"},
		{"2", "0", "3"},
	}, 0), store.PartitionTrain)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := sqlite.Open(sqlite.Config{Path: db, Indexing: store.IndexingSkip})
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	n, ok, err := s2.Count(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2, n, "reopening must keep previously ingested rows")
}

func TestOpen_MissingParentDirectory(t *testing.T) {
	db := filepath.Join(testDir(t), "nope", "deeper", "triples.db")

	_, err := sqlite.Open(sqlite.Config{Path: db})
	require.Error(t, err)
	assert.True(t, triplederr.IsUnavailable(err), "unreachable path should report storage unavailable, got: %v", err)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := sqlite.Open(sqlite.Config{})
	require.Error(t, err)
	assert.True(t, triplederr.IsUnavailable(err))
}

func TestOpen_ReuseRequiresIndexer(t *testing.T) {
	db := testDBPath(t, "reuse-missing-indexer")

	_, err := sqlite.Open(sqlite.Config{Path: db, Indexing: store.IndexingReuse})
	require.Error(t, err)
	assert.True(t, triplederr.IsInvalidConfiguration(err))
}

func TestOpen_UnknownIndexingMode(t *testing.T) {
	db := testDBPath(t, "bad-mode")

	_, err := sqlite.Open(sqlite.Config{Path: db, Indexing: store.IndexingMode("hash")})
	require.Error(t, err)
	assert.True(t, triplederr.IsInvalidConfiguration(err))
}

func TestOpen_IndexerDefaults(t *testing.T) {
	t.Run("build mode gets a fresh in-memory indexer", func(t *testing.T) {
		s, err := sqlite.Open(sqlite.Config{Path: testDBPath(t, "default-build")})
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		require.NotNil(t, s.Indexer())
		assert.False(t, s.Indexer().Frozen(), "the default mapping is empty until the first ingestion")
	})

	t.Run("skip mode carries no indexer", func(t *testing.T) {
		s, err := sqlite.Open(sqlite.Config{
			Path:     testDBPath(t, "default-skip"),
			Indexing: store.IndexingSkip,
			Indexer:  indexer.NewMemory(),
		})
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		assert.Nil(t, s.Indexer(), "skip mode ignores any supplied indexer")
	})
}

func TestStore_SessionCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(sqlite.Config{Path: testDBPath(t, "session-commit")})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	err = s.Session(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO triples (subject, predicate, object, partition) VALUES (1, 2, 3, 'train')`)
		return err
	})
	require.NoError(t, err)

	n, _, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_SessionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(sqlite.Config{Path: testDBPath(t, "session-rollback")})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	boom := errors.New("caller gave up")
	err = s.Session(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO triples (subject, predicate, object, partition) VALUES (1, 2, 3, 'train')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom, "the callback's error must come back unchanged")

	n, _, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a failed session must leave no rows behind")
}

func TestStore_RemoveDeletesFile(t *testing.T) {
	db := testDBPath(t, "remove")
	s, err := sqlite.Open(sqlite.Config{Path: db})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, s.Remove())
	_, err = os.Stat(db)
	assert.True(t, errors.Is(err, os.ErrNotExist), "database file should be gone")

	// A second removal of an already-missing file is a no-op.
	require.NoError(t, s.Remove())
}
