// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package source

import (
	"context"
	"errors"
	"io"

	"github.com/tripled-dev/tripled/internal/store"
)

// Compile-time interface check.
var _ store.Producer = (*rechunker)(nil)

// Rechunk regroups a producer's output into chunks of exactly size rows
// (the final chunk may be shorter). Ingestion always rechunks at the
// store's configured chunk size rather than trusting the source's natural
// chunking.
func Rechunk(inner store.Producer, size int) store.Producer {
	if size < 1 {
		size = store.DefaultChunkSize
	}
	return &rechunker{inner: inner, size: size}
}

type rechunker struct {
	inner store.Producer
	size  int
	buf   []store.RawTriple
	eof   bool
}

func (r *rechunker) Next(ctx context.Context) ([]store.RawTriple, error) {
	for len(r.buf) < r.size && !r.eof {
		chunk, err := r.inner.Next(ctx)
		if errors.Is(err, io.EOF) {
			r.eof = true
			break
		}
		if err != nil {
			return nil, err
		}
		r.buf = append(r.buf, chunk...)
	}

	if len(r.buf) == 0 {
		return nil, io.EOF
	}
	n := min(r.size, len(r.buf))
	out := make([]store.RawTriple, n)
	copy(out, r.buf[:n])
	r.buf = r.buf[:copy(r.buf, r.buf[n:])]
	return out, nil
}

func (r *rechunker) Reset(ctx context.Context) error {
	if err := r.inner.Reset(ctx); err != nil {
		return err
	}
	r.buf = r.buf[:0]
	r.eof = false
	return nil
}

func (r *rechunker) Close() error {
	return r.inner.Close()
}
