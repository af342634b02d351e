// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripled-dev/tripled/internal/source"
	"github.com/tripled-dev/tripled/internal/store"
	"github.com/tripled-dev/tripled/internal/store/sqlite"
)

// testDir creates a temp directory for a test.
func testDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tripled-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// testDBPath returns a temp SQLite database path.
func testDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testDir(t), name+".db")
}

// collectBatches drains a batch sequence, failing the test on the first error.
func collectBatches(t *testing.T, seq iter.Seq2[*store.Batch, error]) []*store.Batch {
	t.Helper()
	var out []*store.Batch
	for b, err := range seq {
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

// seedStore opens a skip-indexing store and ingests rows into partition p.
func seedStore(t *testing.T, name string, p store.Partition, rows []store.RawTriple) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(sqlite.Config{Path: testDBPath(t, name), Indexing: store.IndexingSkip})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	if len(rows) > 0 {
		_, err = s.Populate(context.Background(), source.FromRows(rows, 0), p)
		require.NoError(t, err)
	}
	return s
}

// numberedRows builds n distinct skip-mode rows (i, 0, i+offset).
func numberedRows(n, offset int) []store.RawTriple {
	rows := make([]store.RawTriple, n)
	for i := range rows {
		rows[i] = store.RawTriple{strconv.Itoa(i), "0", strconv.Itoa(i + offset)}
	}
	return rows
}
