// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// TestComplementaryEntities_ExpandsBatchAgainstStore checks both sets on a
// small graph: subject 1 reaches 2 and 4 under predicate 10, and object 2
// is reached from 1 and 3; an unrelated edge stays out of both sets.
func TestComplementaryEntities_ExpandsBatchAgainstStore(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "complement", store.PartitionTrain, []store.RawTriple{
		{"1", "10", "2"},
		{"3", "10", "2"},
		{"1", "10", "4"},
		{"7", "99", "8"},
	})

	filter, err := s.ComplementaryEntities(ctx, []store.Triple{
		{Subject: 1, Predicate: 10, Object: 2},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 4}, filter.Objects)
	assert.ElementsMatch(t, []int64{1, 3}, filter.Subjects)
}

func TestComplementaryEntities_EmptyBatch(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "complement-empty", store.PartitionTrain, numberedRows(3, 100))

	filter, err := s.ComplementaryEntities(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, filter.Subjects)
	assert.Empty(t, filter.Objects)
}

func TestComplementaryEntities_DeduplicatesWithinSets(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "complement-dedup", store.PartitionTrain, []store.RawTriple{
		{"1", "10", "2"},
		{"1", "11", "2"},
	})

	// Both batch rows share the same endpoints; each set still lists an
	// entity once.
	filter, err := s.ComplementaryEntities(ctx, []store.Triple{
		{Subject: 1, Predicate: 10, Object: 2},
		{Subject: 1, Predicate: 11, Object: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, filter.Objects)
	assert.Equal(t, []int64{1}, filter.Subjects)
}

func TestTriplesBetween_MatchesBothDirections(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "between", store.PartitionTrain, []store.RawTriple{
		{"1", "10", "2"},
		{"2", "11", "1"},
		{"1", "10", "4"},
		{"3", "10", "4"},
	})

	got, err := s.TriplesBetween(ctx, store.EntityFilter{
		Subjects: []int64{1},
		Objects:  []int64{2},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []store.Triple{
		{Subject: 1, Predicate: 10, Object: 2},
		{Subject: 2, Predicate: 11, Object: 1},
	}, got, "edges count in either direction between the two sets")
}

func TestTriplesBetween_EntitiesStandInForBothSides(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "between-entities", store.PartitionTrain, []store.RawTriple{
		{"1", "10", "2"},
		{"2", "11", "1"},
		{"1", "10", "4"},
		{"3", "10", "4"},
	})

	got, err := s.TriplesBetween(ctx, store.EntityFilter{Entities: []int64{1, 2}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []store.Triple{
		{Subject: 1, Predicate: 10, Object: 2},
		{Subject: 2, Predicate: 11, Object: 1},
	}, got, "edges leaving the entity set are excluded")
}

func TestTriplesBetween_PartialArgumentsRejected(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "between-partial", store.PartitionTrain, numberedRows(3, 100))

	tests := []struct {
		name   string
		filter store.EntityFilter
	}{
		{name: "subjects alone", filter: store.EntityFilter{Subjects: []int64{1}}},
		{name: "objects alone", filter: store.EntityFilter{Objects: []int64{2}}},
		{name: "subjects with entities but no objects", filter: store.EntityFilter{Subjects: []int64{1}, Entities: []int64{1, 2}}},
		{name: "nothing at all", filter: store.EntityFilter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.TriplesBetween(ctx, tt.filter)
			require.Error(t, err)
			assert.True(t, triplederr.IsInvalidConfiguration(err), "got: %v", err)
		})
	}
}
