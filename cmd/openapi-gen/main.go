// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tripled-dev/tripled/internal/server"
	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations.
func generateSpec() ([]byte, error) {
	// A no-op store stands in so all routes are registered for schema
	// discovery. Handlers are never invoked during spec generation.
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, &stubStore{})
	if err != nil {
		return nil, triplederr.Errorf(triplederr.CodeCLISetupFailure, "creating server: %w", err)
	}

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}

// stubStore satisfies server.Store for spec generation. Methods are never
// called.
type stubStore struct{}

func (s *stubStore) Count(context.Context) (int64, bool, error) { return 0, false, nil }
func (s *stubStore) CountPartition(context.Context, store.Partition) (int64, bool, error) {
	return 0, false, nil
}

func (s *stubStore) Sample(context.Context, store.Partition, int) ([]store.Triple, error) {
	return nil, nil
}
func (s *stubStore) Summary(context.Context) (*store.Summary, error) { return nil, nil }
func (s *stubStore) TriplesBetween(context.Context, store.EntityFilter) ([]store.Triple, error) {
	return nil, nil
}
