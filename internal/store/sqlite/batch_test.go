// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package sqlite_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripled-dev/tripled/internal/source"
	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func TestBatches_YieldsFloorFullPages(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-floor", store.PartitionTrain, numberedRows(10, 100))

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 3,
	}))
	require.Len(t, batches, 3, "10 rows at batch size 3 give floor(10/3) batches")

	seen := make(map[store.Triple]bool)
	for i, b := range batches {
		assert.Equal(t, i, b.Ordinal)
		assert.Equal(t, store.PartitionTrain, b.Partition)
		require.Len(t, b.Triples, 3, "every yielded batch is full")
		for _, tr := range b.Triples {
			assert.False(t, seen[tr], "row %v repeated across pages", tr)
			seen[tr] = true
			assert.Equal(t, tr.Subject+100, tr.Object, "row does not belong to the seeded partition")
		}
	}
	assert.Len(t, seen, 9, "the remainder rows are simply never yielded")
}

func TestBatches_ExactMultipleCoversPartition(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-exact", store.PartitionTrain, numberedRows(10, 100))

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 5,
	}))
	require.Len(t, batches, 2)

	var got []store.Triple
	for _, b := range batches {
		got = append(got, b.Triples...)
	}
	want := make([]store.Triple, 10)
	for i := range want {
		want[i] = store.Triple{Subject: int64(i), Predicate: 0, Object: int64(i + 100)}
	}
	assert.ElementsMatch(t, want, got, "two pages of five must cover all ten rows exactly once")
}

func TestBatches_BatchLargerThanPartition(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-oversized", store.PartitionTrain, numberedRows(10, 100))

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 11,
	}))
	assert.Empty(t, batches, "floor(10/11) is zero batches")
}

func TestBatches_PartitionIsolation(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-isolation", store.PartitionTrain, numberedRows(6, 100))
	_, err := s.Populate(ctx, source.FromRows([]store.RawTriple{
		{"50", "1", "60"},
		{"51", "1", "61"},
		{"52", "1", "62"},
		{"53", "1", "63"},
	}, 0), store.PartitionTest)
	require.NoError(t, err)

	train := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 2,
	}))
	require.Len(t, train, 3)
	for _, b := range train {
		for _, tr := range b.Triples {
			assert.Less(t, tr.Subject, int64(10), "train iteration leaked a test row: %v", tr)
		}
	}

	test := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTest,
		BatchSize: 2,
	}))
	require.Len(t, test, 2)
	for _, b := range test {
		for _, tr := range b.Triples {
			assert.GreaterOrEqual(t, tr.Subject, int64(50), "test iteration leaked a train row: %v", tr)
		}
	}
}

func TestBatches_OrderBySubjectSortsAcrossPages(t *testing.T) {
	ctx := context.Background()

	// Insert out of order so the sort cannot come from insertion order.
	shuffled := []int{5, 2, 9, 0, 7, 1, 8, 3, 6, 4}
	rows := make([]store.RawTriple, len(shuffled))
	for i, v := range shuffled {
		rows[i] = store.RawTriple{strconv.Itoa(v), "0", strconv.Itoa(v + 100)}
	}
	s := seedStore(t, "batch-order-subject", store.PartitionTrain, rows)

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 2,
		OrderBy:   store.OrderSubject,
	}))
	require.Len(t, batches, 5)

	var subjects []int64
	for _, b := range batches {
		for _, tr := range b.Triples {
			subjects = append(subjects, tr.Subject)
		}
	}
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, subjects,
		"subjects must be globally sorted across page boundaries")
}

func TestBatches_OrderBySubjectObjectBreaksTies(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-order-so", store.PartitionTrain, []store.RawTriple{
		{"1", "0", "3"},
		{"1", "0", "1"},
		{"1", "0", "2"},
		{"1", "0", "0"},
	})

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 2,
		OrderBy:   store.OrderSubjectObject,
	}))
	require.Len(t, batches, 2)

	var objects []int64
	for _, b := range batches {
		for _, tr := range b.Triples {
			objects = append(objects, tr.Object)
		}
	}
	assert.Equal(t, []int64{0, 1, 2, 3}, objects, "equal subjects fall back to object order")
}

func TestBatches_RandomYieldsFullPagesFromPartition(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-random", store.PartitionTrain, numberedRows(9, 100))

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 3,
		Random:    true,
	}))
	require.Len(t, batches, 3)
	for _, b := range batches {
		require.Len(t, b.Triples, 3)
		for _, tr := range b.Triples {
			// Random ordering may repeat rows across pages, but every row
			// still has to come from the iterated partition.
			assert.Equal(t, tr.Subject+100, tr.Object)
			assert.GreaterOrEqual(t, tr.Subject, int64(0))
			assert.Less(t, tr.Subject, int64(9))
		}
	}
}

func TestBatches_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-invalid", store.PartitionTrain, numberedRows(4, 100))

	tests := []struct {
		name string
		opts store.BatchOptions
	}{
		{
			name: "random combined with order by",
			opts: store.BatchOptions{
				Partition: store.PartitionTrain,
				BatchSize: 2,
				Random:    true,
				OrderBy:   store.OrderSubject,
			},
		},
		{
			name: "zero batch size",
			opts: store.BatchOptions{Partition: store.PartitionTrain},
		},
		{
			name: "unknown partition",
			opts: store.BatchOptions{Partition: store.Partition("dev"), BatchSize: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got error
			for b, err := range s.Batches(ctx, tt.opts) {
				require.Nil(t, b, "no batch may be yielded before validation")
				got = err
			}
			require.Error(t, got)
			assert.True(t, triplederr.IsInvalidConfiguration(got), "got: %v", got)
		})
	}
}

func TestBatches_CountSnapshottedPerIterator(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-snapshot", store.PartitionTrain, numberedRows(10, 100))
	opts := store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 2}

	more := []store.RawTriple{
		{"100", "0", "200"},
		{"101", "0", "201"},
		{"102", "0", "202"},
		{"103", "0", "203"},
	}

	var count int
	grown := false
	for b, err := range s.Batches(ctx, opts) {
		require.NoError(t, err)
		require.Len(t, b.Triples, 2)
		if !grown {
			grown = true
			_, err := s.Populate(ctx, source.FromRows(more, 0), store.PartitionTrain)
			require.NoError(t, err)
		}
		count++
	}
	assert.Equal(t, 5, count, "rows ingested mid-iteration must not stretch a running iterator")

	fresh := collectBatches(t, s.Batches(ctx, opts))
	assert.Len(t, fresh, 7, "a fresh iterator snapshots the grown count")
}

func TestBatches_EarlyBreakReleasesConnection(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-break", store.PartitionTrain, numberedRows(10, 100))

	for b, err := range s.Batches(ctx, store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 2}) {
		require.NoError(t, err)
		require.NotNil(t, b)
		break
	}

	// The store has a single physical connection; an abandoned iterator
	// must not keep holding it.
	n, ok, err := s.Count(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 10, n)
}

func TestBatches_WithFilterAttachesComplementarySets(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "batch-filter", store.PartitionTrain, []store.RawTriple{
		{"1", "10", "2"},
		{"3", "10", "2"},
		{"1", "10", "4"},
	})

	batches := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition:  store.PartitionTrain,
		BatchSize:  3,
		WithFilter: true,
	}))
	require.Len(t, batches, 1)
	filter := batches[0].Filter
	require.NotNil(t, filter)
	assert.ElementsMatch(t, []int64{1, 3}, filter.Subjects)
	assert.ElementsMatch(t, []int64{2, 4}, filter.Objects)

	plain := collectBatches(t, s.Batches(ctx, store.BatchOptions{
		Partition: store.PartitionTrain,
		BatchSize: 3,
	}))
	require.Len(t, plain, 1)
	assert.Nil(t, plain[0].Filter, "filters are computed only on request")
}

func TestSample_LimitsAndValidation(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, "sample", store.PartitionTrain, numberedRows(5, 100))

	got, err := s.Sample(ctx, store.PartitionTrain, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	all, err := s.Sample(ctx, store.PartitionTrain, 50)
	require.NoError(t, err)
	assert.Len(t, all, 5, "a limit beyond the partition size returns everything")

	_, err = s.Sample(ctx, store.PartitionTrain, 0)
	require.Error(t, err)
	assert.True(t, triplederr.IsInvalidConfiguration(err))
}
