// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/api/v1/summary",
		Summary:     "Describe the database file and its tables",
		Tags:        []string{"introspection"},
	}, s.handleSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-partitions",
		Method:      http.MethodGet,
		Path:        "/api/v1/partitions",
		Summary:     "Row counts per partition",
		Tags:        []string{"partitions"},
	}, s.handleListPartitions)

	huma.Register(s.api, huma.Operation{
		OperationID: "count-partition",
		Method:      http.MethodGet,
		Path:        "/api/v1/partitions/{partition}/count",
		Summary:     "Row count of one partition",
		Tags:        []string{"partitions"},
	}, s.handleCountPartition)

	huma.Register(s.api, huma.Operation{
		OperationID: "sample-partition",
		Method:      http.MethodGet,
		Path:        "/api/v1/partitions/{partition}/sample",
		Summary:     "Sample triples from one partition",
		Tags:        []string{"partitions"},
	}, s.handleSamplePartition)

	huma.Register(s.api, huma.Operation{
		OperationID: "triples-between",
		Method:      http.MethodPost,
		Path:        "/api/v1/triples/between",
		Summary:     "Triples connecting the given entity sets, in either direction",
		Tags:        []string{"triples"},
	}, s.handleTriplesBetween)
}

// --- Request/Response types for huma ---

type tripleBody struct {
	Subject   int64 `json:"subject"`
	Predicate int64 `json:"predicate"`
	Object    int64 `json:"object"`
}

type columnBody struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type tableBody struct {
	Name    string       `json:"name"`
	Columns []columnBody `json:"columns"`
	Example []string     `json:"example,omitempty" doc:"First row rendered as text"`
	Rows    int64        `json:"rows"`
}

type summaryOutput struct {
	Body struct {
		Path      string      `json:"path" doc:"Database file path"`
		FileSize  int64       `json:"file_size" doc:"File size in bytes"`
		TotalRows int64       `json:"total_rows"`
		Tables    []tableBody `json:"tables"`
	}
}

type partitionCountBody struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

type listPartitionsOutput struct {
	Body struct {
		Exists     bool                 `json:"exists" doc:"False when the triples table has been cleaned away"`
		Total      int64                `json:"total"`
		Partitions []partitionCountBody `json:"partitions"`
	}
}

type partitionInput struct {
	Partition string `path:"partition" doc:"train, validation, or test"`
}

type countPartitionOutput struct {
	Body struct {
		Partition string `json:"partition"`
		Exists    bool   `json:"exists"`
		Rows      int64  `json:"rows"`
	}
}

type samplePartitionInput struct {
	Partition string `path:"partition" doc:"train, validation, or test"`
	Limit     int    `query:"limit" default:"10" minimum:"1" maximum:"1000" doc:"Maximum triples returned"`
}

type samplePartitionOutput struct {
	Body struct {
		Partition string       `json:"partition"`
		Triples   []tripleBody `json:"triples"`
	}
}

type triplesBetweenInput struct {
	Body struct {
		Subjects []int64 `json:"subjects,omitempty" doc:"Subject ids; set together with objects"`
		Objects  []int64 `json:"objects,omitempty" doc:"Object ids; set together with subjects"`
		Entities []int64 `json:"entities,omitempty" doc:"Stands in for both sides when subjects and objects are absent"`
	}
}

type triplesBetweenOutput struct {
	Body struct {
		Count   int          `json:"count"`
		Triples []tripleBody `json:"triples"`
	}
}

// --- Handlers ---

func (s *Server) handleSummary(ctx context.Context, _ *struct{}) (*summaryOutput, error) {
	sum, err := s.store.Summary(ctx)
	if err != nil {
		return nil, httpError("summarizing store", err)
	}

	out := &summaryOutput{}
	out.Body.Path = sum.Path
	out.Body.FileSize = sum.FileSize
	out.Body.TotalRows = sum.TotalRows
	out.Body.Tables = make([]tableBody, 0, len(sum.Tables))
	for _, table := range sum.Tables {
		columns := make([]columnBody, 0, len(table.Columns))
		for _, col := range table.Columns {
			columns = append(columns, columnBody{Name: col.Name, Type: col.Type})
		}
		out.Body.Tables = append(out.Body.Tables, tableBody{
			Name:    table.Name,
			Columns: columns,
			Example: table.Example,
			Rows:    table.Rows,
		})
	}
	return out, nil
}

func (s *Server) handleListPartitions(ctx context.Context, _ *struct{}) (*listPartitionsOutput, error) {
	total, exists, err := s.store.Count(ctx)
	if err != nil {
		return nil, httpError("counting triples", err)
	}

	out := &listPartitionsOutput{}
	out.Body.Exists = exists
	out.Body.Total = total
	out.Body.Partitions = make([]partitionCountBody, 0, len(store.Partitions()))
	for _, p := range store.Partitions() {
		rows, _, err := s.store.CountPartition(ctx, p)
		if err != nil {
			return nil, httpError(fmt.Sprintf("counting partition %q", p), err)
		}
		out.Body.Partitions = append(out.Body.Partitions, partitionCountBody{Name: string(p), Rows: rows})
	}
	return out, nil
}

func (s *Server) handleCountPartition(ctx context.Context, input *partitionInput) (*countPartitionOutput, error) {
	p, err := store.ParsePartition(input.Partition)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("partition %q not found", input.Partition))
	}

	rows, exists, err := s.store.CountPartition(ctx, p)
	if err != nil {
		return nil, httpError(fmt.Sprintf("counting partition %q", p), err)
	}

	out := &countPartitionOutput{}
	out.Body.Partition = string(p)
	out.Body.Exists = exists
	out.Body.Rows = rows
	return out, nil
}

func (s *Server) handleSamplePartition(ctx context.Context, input *samplePartitionInput) (*samplePartitionOutput, error) {
	p, err := store.ParsePartition(input.Partition)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("partition %q not found", input.Partition))
	}

	triples, err := s.store.Sample(ctx, p, input.Limit)
	if err != nil {
		return nil, httpError(fmt.Sprintf("sampling partition %q", p), err)
	}

	out := &samplePartitionOutput{}
	out.Body.Partition = string(p)
	out.Body.Triples = toTripleBodies(triples)
	return out, nil
}

func (s *Server) handleTriplesBetween(ctx context.Context, input *triplesBetweenInput) (*triplesBetweenOutput, error) {
	triples, err := s.store.TriplesBetween(ctx, store.EntityFilter{
		Subjects: input.Body.Subjects,
		Objects:  input.Body.Objects,
		Entities: input.Body.Entities,
	})
	if err != nil {
		return nil, httpError("selecting triples", err)
	}

	out := &triplesBetweenOutput{}
	out.Body.Count = len(triples)
	out.Body.Triples = toTripleBodies(triples)
	return out, nil
}

func toTripleBodies(triples []store.Triple) []tripleBody {
	out := make([]tripleBody, 0, len(triples))
	for _, t := range triples {
		out = append(out, tripleBody{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object})
	}
	return out
}

// httpError translates a store error into the matching huma status error.
func httpError(msg string, err error) error {
	switch triplederr.HTTPStatus(err) {
	case http.StatusNotFound:
		return huma.Error404NotFound(msg, err)
	case http.StatusBadRequest:
		return huma.Error400BadRequest(msg, err)
	case http.StatusConflict:
		return huma.Error409Conflict(msg, err)
	case http.StatusServiceUnavailable:
		return huma.Error503ServiceUnavailable(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
