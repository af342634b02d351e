// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package source

import (
	"context"
	"io"

	"github.com/tripled-dev/tripled/internal/store"
)

// Compile-time interface check.
var _ store.Producer = (*Slice)(nil)

// Slice replays an in-memory row set as chunks. Handy for tests and small
// programmatic ingests.
type Slice struct {
	rows      []store.RawTriple
	chunkSize int
	off       int
}

// FromRows wraps rows in a producer yielding chunks of chunkSize.
func FromRows(rows []store.RawTriple, chunkSize int) *Slice {
	if chunkSize < 1 {
		chunkSize = store.DefaultChunkSize
	}
	return &Slice{rows: rows, chunkSize: chunkSize}
}

func (s *Slice) Next(ctx context.Context) ([]store.RawTriple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.off >= len(s.rows) {
		return nil, io.EOF
	}
	end := min(s.off+s.chunkSize, len(s.rows))
	chunk := s.rows[s.off:end]
	s.off = end
	return chunk, nil
}

func (s *Slice) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.off = 0
	return nil
}

func (s *Slice) Close() error {
	return nil
}
