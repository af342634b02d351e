// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func TestParsePartition(t *testing.T) {
	tests := []struct {
		in      string
		want    store.Partition
		wantErr bool
	}{
		{"train", store.PartitionTrain, false},
		{"validation", store.PartitionValidation, false},
		{"valid", store.PartitionValidation, false},
		{"test", store.PartitionTest, false},
		{"TRAIN", store.PartitionTrain, false},
		{"  test  ", store.PartitionTest, false},
		{"", "", true},
		{"dev", "", true},
		{"training", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.ParsePartition(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, triplederr.IsInvalidConfiguration(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartitionValid(t *testing.T) {
	for _, p := range store.Partitions() {
		assert.True(t, p.Valid(), "partition %q", p)
	}
	assert.False(t, store.Partition("dev").Valid())
	assert.False(t, store.Partition("").Valid())
}

func TestParseIndexingMode(t *testing.T) {
	tests := []struct {
		in      string
		want    store.IndexingMode
		wantErr bool
	}{
		{"build", store.IndexingBuild, false},
		{"skip", store.IndexingSkip, false},
		{"reuse", store.IndexingReuse, false},
		{"Build", store.IndexingBuild, false},
		{"", "", true},
		{"rebuild", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.ParseIndexingMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, triplederr.IsInvalidConfiguration(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    store.BatchOptions
		wantErr bool
	}{
		{
			name: "plain pagination",
			opts: store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 10},
		},
		{
			name: "ordered by subject",
			opts: store.BatchOptions{Partition: store.PartitionTest, BatchSize: 1, OrderBy: store.OrderSubject},
		},
		{
			name: "ordered by subject and object",
			opts: store.BatchOptions{Partition: store.PartitionTest, BatchSize: 5, OrderBy: store.OrderSubjectObject},
		},
		{
			name: "random without ordering",
			opts: store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 100, Random: true},
		},
		{
			name:    "random with ordering is rejected",
			opts:    store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 10, Random: true, OrderBy: store.OrderSubject},
			wantErr: true,
		},
		{
			name:    "zero batch size",
			opts:    store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 0},
			wantErr: true,
		},
		{
			name:    "negative batch size",
			opts:    store.BatchOptions{Partition: store.PartitionTrain, BatchSize: -3},
			wantErr: true,
		},
		{
			name:    "unknown partition",
			opts:    store.BatchOptions{Partition: "dev", BatchSize: 10},
			wantErr: true,
		},
		{
			name:    "unknown ordering",
			opts:    store.BatchOptions{Partition: store.PartitionTrain, BatchSize: 10, OrderBy: "predicate"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, triplederr.IsInvalidConfiguration(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEntityFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  store.EntityFilter
		wantErr bool
	}{
		{
			name:   "subjects and objects",
			filter: store.EntityFilter{Subjects: []int64{1}, Objects: []int64{2}},
		},
		{
			name:   "entities alone",
			filter: store.EntityFilter{Entities: []int64{1, 2, 3}},
		},
		{
			name:   "entities ignored when both sides present",
			filter: store.EntityFilter{Subjects: []int64{1}, Objects: []int64{2}, Entities: []int64{9}},
		},
		{
			name:    "subjects without objects",
			filter:  store.EntityFilter{Subjects: []int64{1}},
			wantErr: true,
		},
		{
			name:    "objects without subjects",
			filter:  store.EntityFilter{Objects: []int64{2}},
			wantErr: true,
		},
		{
			name:    "subjects with entities but no objects",
			filter:  store.EntityFilter{Subjects: []int64{1}, Entities: []int64{9}},
			wantErr: true,
		},
		{
			name:    "nothing at all",
			filter:  store.EntityFilter{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, triplederr.IsInvalidConfiguration(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
