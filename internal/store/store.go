// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package store

import "context"

// Producer yields a tabular data source as successive chunks of raw triples.
// Next returns io.EOF after the final chunk; a producer is single-pass, and
// Reset rewinds it so the source can be replayed (ingestion under build-mode
// indexing reads every source twice).
type Producer interface {
	Next(ctx context.Context) ([]RawTriple, error)
	Reset(ctx context.Context) error
	Close() error
}

// Indexer is a bijection between raw identifiers and dense non-negative
// integers. Entities (subjects and objects) and relations (predicates)
// occupy separate id spaces. Once a store has been populated through an
// Indexer, the same mapping (or one with a compatible forward mapping) must
// be used for every later ingestion into that store, or numeric ids collide
// across semantically different identifiers.
type Indexer interface {
	// Add records every identifier in rows, assigning the next dense index
	// to each unseen one. Only valid before the mapping is frozen.
	Add(rows []RawTriple) error
	// Freeze marks the mapping complete. Add fails afterwards; Index is
	// only valid once frozen.
	Freeze() error
	// Frozen reports whether the mapping is complete.
	Frozen() bool
	// Index translates raw rows through the frozen mapping. An identifier
	// outside the mapping is an inconsistency, not an occasion to extend it.
	Index(rows []RawTriple) ([]Triple, error)
	// Entity and Relation reverse dense indices back to raw identifiers.
	Entity(id int64) (string, error)
	Relation(id int64) (string, error)
	EntityCount() int64
	RelationCount() int64
	Close() error
}

// Reader is the read-only surface of a triple store, consumed by the
// introspection server.
type Reader interface {
	Count(ctx context.Context) (int64, bool, error)
	CountPartition(ctx context.Context, p Partition) (int64, bool, error)
	Sample(ctx context.Context, p Partition, limit int) ([]Triple, error)
	Summary(ctx context.Context) (*Summary, error)
}
