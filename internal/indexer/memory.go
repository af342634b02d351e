// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

// Package indexer maps raw entity and relation identifiers to the dense
// non-negative integers stored in the triple table. Indices are assigned in
// first-seen order during the build pass; entities and relations occupy
// separate id spaces.
package indexer

import (
	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Compile-time interface check.
var _ store.Indexer = (*Memory)(nil)

// Memory is the default map-backed Indexer. It lives and dies with the
// process; use Badger when the mapping must survive between runs.
type Memory struct {
	entities  map[string]int64
	relations map[string]int64
	// Reverse lookups: slice index is the dense id.
	entityNames   []string
	relationNames []string
	frozen        bool
}

// NewMemory returns an empty, unfrozen in-memory Indexer.
func NewMemory() *Memory {
	return &Memory{
		entities:  make(map[string]int64),
		relations: make(map[string]int64),
	}
}

func (m *Memory) Add(rows []store.RawTriple) error {
	if m.frozen {
		return triplederr.New(triplederr.CodeIndexerInconsistent, "mapping is frozen, cannot add identifiers")
	}
	for _, row := range rows {
		m.addEntity(row[0])
		m.addRelation(row[1])
		m.addEntity(row[2])
	}
	return nil
}

func (m *Memory) addEntity(raw string) {
	if _, ok := m.entities[raw]; ok {
		return
	}
	m.entities[raw] = int64(len(m.entityNames))
	m.entityNames = append(m.entityNames, raw)
}

func (m *Memory) addRelation(raw string) {
	if _, ok := m.relations[raw]; ok {
		return
	}
	m.relations[raw] = int64(len(m.relationNames))
	m.relationNames = append(m.relationNames, raw)
}

func (m *Memory) Freeze() error {
	m.frozen = true
	return nil
}

func (m *Memory) Frozen() bool {
	return m.frozen
}

func (m *Memory) Index(rows []store.RawTriple) ([]store.Triple, error) {
	if !m.frozen {
		return nil, triplederr.New(triplederr.CodeIndexerNotBuilt, "mapping is not frozen yet")
	}
	out := make([]store.Triple, len(rows))
	for i, row := range rows {
		s, ok := m.entities[row[0]]
		if !ok {
			return nil, triplederr.Errorf(triplederr.CodeIndexerInconsistent, "unknown entity %q", row[0])
		}
		p, ok := m.relations[row[1]]
		if !ok {
			return nil, triplederr.Errorf(triplederr.CodeIndexerInconsistent, "unknown relation %q", row[1])
		}
		o, ok := m.entities[row[2]]
		if !ok {
			return nil, triplederr.Errorf(triplederr.CodeIndexerInconsistent, "unknown entity %q", row[2])
		}
		out[i] = store.Triple{Subject: s, Predicate: p, Object: o}
	}
	return out, nil
}

func (m *Memory) Entity(id int64) (string, error) {
	if id < 0 || id >= int64(len(m.entityNames)) {
		return "", triplederr.Errorf(triplederr.CodeIndexerInconsistent, "entity id %d out of range [0, %d)", id, len(m.entityNames))
	}
	return m.entityNames[id], nil
}

func (m *Memory) Relation(id int64) (string, error) {
	if id < 0 || id >= int64(len(m.relationNames)) {
		return "", triplederr.Errorf(triplederr.CodeIndexerInconsistent, "relation id %d out of range [0, %d)", id, len(m.relationNames))
	}
	return m.relationNames[id], nil
}

func (m *Memory) EntityCount() int64 {
	return int64(len(m.entityNames))
}

func (m *Memory) RelationCount() int64 {
	return int64(len(m.relationNames))
}

func (m *Memory) Close() error {
	return nil
}
