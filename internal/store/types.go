// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package store

// DefaultChunkSize is the number of raw triples handed to the bulk writer
// per transaction when the caller does not configure one.
const DefaultChunkSize = 30000

// --- Partition ---

// Partition labels the logical dataset split a triple belongs to. Triples of
// all partitions share one table; the partition column is the only thing
// separating them.
type Partition string

const (
	PartitionTrain      Partition = "train"
	PartitionValidation Partition = "validation"
	PartitionTest       Partition = "test"
)

// Partitions returns every known partition in canonical order.
func Partitions() []Partition {
	return []Partition{PartitionTrain, PartitionValidation, PartitionTest}
}

// --- Triples ---

// Triple is one indexed knowledge-graph edge. Subject, predicate, and object
// are dense indices assigned by an Indexer; they carry no meaning beyond
// equality and use as array offsets. Entities (subjects and objects) and
// relations (predicates) live in separate id spaces, so a subject 3 and a
// predicate 3 are unrelated.
type Triple struct {
	Subject   int64
	Predicate int64
	Object    int64
}

// RawTriple is one edge as read from a source, before indexing:
// subject, predicate, object identifiers in that order.
type RawTriple [3]string

// --- Indexing policy ---

// IndexingMode selects how raw identifiers become dense integers during
// ingestion. The mode is fixed at store construction.
type IndexingMode string

const (
	// IndexingBuild constructs a fresh Indexer from a full pass over the
	// source before any row is written.
	IndexingBuild IndexingMode = "build"
	// IndexingSkip stores raw values as-is; they must already be decimal
	// integers.
	IndexingSkip IndexingMode = "skip"
	// IndexingReuse translates through a caller-supplied pre-built Indexer.
	IndexingReuse IndexingMode = "reuse"
)

// --- Batch iteration ---

// OrderBy selects the sort applied to non-random batch iteration.
type OrderBy string

const (
	OrderNone          OrderBy = ""
	OrderSubject       OrderBy = "subject"
	OrderObject        OrderBy = "object"
	OrderSubjectObject OrderBy = "subject_object"
)

// BatchOptions configures one pass of batch iteration over a partition.
type BatchOptions struct {
	Partition Partition
	BatchSize int
	// Random draws each page in randomized order. Pages are not guaranteed
	// disjoint: the ordering is re-randomized per query, so this is random
	// *ordering*, not sampling without replacement. Incompatible with a
	// non-none OrderBy.
	Random  bool
	OrderBy OrderBy
	// WithFilter attaches the complementary-entity sets to every yielded
	// batch, for building filtered corruption pools.
	WithFilter bool
}

// Batch is one page of triples yielded by iteration. Filter is non-nil only
// when the iteration was configured WithFilter.
type Batch struct {
	Partition Partition
	// Ordinal is the zero-based page index within this iteration.
	Ordinal int
	Triples []Triple
	Filter  *FilterSets
}

// FilterSets holds the complementary entities of one batch: all subjects
// completing some (predicate, object) pair of the batch, and all objects
// completing some (subject, predicate) pair. The two sets are not
// deduplicated against each other; callers union them as needed.
type FilterSets struct {
	Subjects []int64
	Objects  []int64
}

// EntityFilter selects stored triples whose endpoints fall inside given id
// sets. Either both Subjects and Objects are set, or Entities alone stands
// in for both sides. Entities is consulted only when Subjects and Objects
// are both absent.
type EntityFilter struct {
	Subjects []int64
	Objects  []int64
	Entities []int64
}

// --- Ingestion ---

// PopulateResult reports what one ingestion pass wrote.
type PopulateResult struct {
	Partition Partition
	Rows      int64
	Chunks    int
}

// --- Introspection ---

// Column describes one column of a stored table.
type Column struct {
	Name string
	Type string
}

// TableSummary describes one table: its columns, an example row rendered as
// text (empty when the table has no rows), and the row count.
type TableSummary struct {
	Name    string
	Columns []Column
	Example []string
	Rows    int64
}

// Summary describes the database file and its contents. Presentation only;
// nothing downstream depends on it for correctness.
type Summary struct {
	Path      string
	FileSize  int64
	Tables    []TableSummary
	TotalRows int64
}
