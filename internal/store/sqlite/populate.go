// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/tripled-dev/tripled/internal/source"
	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Populate ingests an entire source into one partition. Under build-mode
// indexing the source is read twice: a first pass enumerates identifiers
// into the mapping, the mapping is frozen, the producer is reset, and the
// second pass translates and writes.
//
// Each chunk commits in its own transaction. A chunk failure aborts the
// rest of the ingestion and is reported with its chunk ordinal; chunks
// committed before it stay committed.
func (s *Store) Populate(ctx context.Context, src store.Producer, partition store.Partition) (*store.PopulateResult, error) {
	if !partition.Valid() {
		return nil, triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration, "ingest: unknown partition %q", partition)
	}
	if err := s.checkSchema(ctx); err != nil {
		return nil, err
	}

	// The store's chunk size wins over the source's natural chunking.
	src = source.Rechunk(src, s.chunkSize)

	if err := s.prepareMapping(ctx, src); err != nil {
		return nil, err
	}

	result := &store.PopulateResult{Partition: partition}
	for {
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		indexed, err := s.translate(chunk)
		if err != nil {
			return nil, err
		}

		err = s.Session(ctx, func(tx *sql.Tx) error {
			return insertChunk(ctx, tx, partition, indexed)
		})
		if err != nil {
			return nil, triplederr.With(err, triplederr.FieldChunk(result.Chunks), triplederr.FieldPartition(string(partition)))
		}

		result.Chunks++
		result.Rows += int64(len(indexed))
	}

	s.logger.Info("partition populated",
		slog.String("partition", string(partition)),
		slog.Int64("rows", result.Rows),
		slog.Int("chunks", result.Chunks),
	)
	return result, nil
}

// prepareMapping makes the indexer ready for translation. In build mode
// with an unfrozen mapping this is the dedicated first pass over the whole
// source; a frozen mapping (a later partition of the same corpus, or a
// persistent indexer from an earlier run) is reused as-is.
func (s *Store) prepareMapping(ctx context.Context, src store.Producer) error {
	switch s.mode {
	case store.IndexingSkip:
		return nil
	case store.IndexingReuse:
		if !s.mapper.Frozen() {
			return triplederr.New(triplederr.CodeIndexerNotBuilt, "reuse indexing requires a frozen mapping")
		}
		return nil
	}

	if s.mapper.Frozen() {
		return nil
	}

	for {
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := s.mapper.Add(chunk); err != nil {
			return err
		}
	}
	if err := s.mapper.Freeze(); err != nil {
		return err
	}
	s.logger.Info("mapping built",
		slog.Int64("entities", s.mapper.EntityCount()),
		slog.Int64("relations", s.mapper.RelationCount()),
	)

	// The build pass consumed the producer; the write pass needs it fresh.
	return src.Reset(ctx)
}

// translate turns one raw chunk into indexed triples according to the
// store's indexing mode.
func (s *Store) translate(chunk []store.RawTriple) ([]store.Triple, error) {
	if s.mode != store.IndexingSkip {
		return s.mapper.Index(chunk)
	}

	out := make([]store.Triple, len(chunk))
	for i, row := range chunk {
		var t store.Triple
		for j, field := range row {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil || v < 0 {
				return nil, triplederr.Errorf(triplederr.CodeStorageInvalidInput,
					"skip indexing requires non-negative integer values, got %q", field)
			}
			switch j {
			case 0:
				t.Subject = v
			case 1:
				t.Predicate = v
			case 2:
				t.Object = v
			}
		}
		out[i] = t
	}
	return out, nil
}
