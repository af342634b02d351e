// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package store

import (
	"strings"

	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Valid reports whether the partition is a known dataset split.
func (p Partition) Valid() bool {
	switch p {
	case PartitionTrain, PartitionValidation, PartitionTest:
		return true
	default:
		return false
	}
}

// ParsePartition converts user input to a Partition. The set is closed:
// anything outside {train, validation, test} is rejected at this boundary
// rather than stored as free text. "valid" is accepted as a shorthand for
// validation because benchmark datasets ship their validation split as
// valid.txt.
func ParsePartition(s string) (Partition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "train":
		return PartitionTrain, nil
	case "validation", "valid":
		return PartitionValidation, nil
	case "test":
		return PartitionTest, nil
	default:
		return "", triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration,
			"unknown partition %q (want train, validation, or test)", s)
	}
}

// Valid reports whether the mode is a known indexing policy.
func (m IndexingMode) Valid() bool {
	switch m {
	case IndexingBuild, IndexingSkip, IndexingReuse:
		return true
	default:
		return false
	}
}

// ParseIndexingMode converts user input to an IndexingMode.
func ParseIndexingMode(s string) (IndexingMode, error) {
	m := IndexingMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration,
			"unknown indexing mode %q (want build, skip, or reuse)", s)
	}
	return m, nil
}

// Valid reports whether the ordering is one the iterator supports.
func (o OrderBy) Valid() bool {
	switch o {
	case OrderNone, OrderSubject, OrderObject, OrderSubjectObject:
		return true
	default:
		return false
	}
}

// Validate checks the options before any row is read. Random ordering and an
// explicit OrderBy are mutually exclusive.
func (o BatchOptions) Validate() error {
	if !o.Partition.Valid() {
		return triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration,
			"iterate: unknown partition %q", o.Partition)
	}
	if o.BatchSize < 1 {
		return triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration,
			"iterate: batch size must be >= 1, got %d", o.BatchSize)
	}
	if !o.OrderBy.Valid() {
		return triplederr.Errorf(triplederr.CodeStorageInvalidConfiguration,
			"iterate: unknown order_by %q", o.OrderBy)
	}
	if o.Random && o.OrderBy != OrderNone {
		return triplederr.New(triplederr.CodeStorageInvalidConfiguration,
			"iterate: order_by requires random=false")
	}
	return nil
}

// Validate rejects ambiguous partial argument combinations: a lookup needs
// both endpoint sets, or a single entity set standing in for both.
func (f EntityFilter) Validate() error {
	hasSubjects := len(f.Subjects) > 0
	hasObjects := len(f.Objects) > 0
	hasEntities := len(f.Entities) > 0

	switch {
	case hasSubjects && hasObjects:
		return nil
	case !hasSubjects && !hasObjects && hasEntities:
		return nil
	default:
		return triplederr.New(triplederr.CodeStorageInvalidConfiguration,
			"entity lookup: provide both subject and object sets, or an entity set alone")
	}
}
