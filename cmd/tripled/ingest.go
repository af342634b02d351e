// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tripled-dev/tripled/internal/config"
	"github.com/tripled-dev/tripled/internal/indexer"
	"github.com/tripled-dev/tripled/internal/source"
	"github.com/tripled-dev/tripled/internal/store"
	"github.com/tripled-dev/tripled/internal/store/sqlite"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Bulk-load triples into the store",
		Long: `Read tab- or comma-separated subject/predicate/object rows and write them
to one partition of the database, building the identifier mapping along the
way. A dataset manifest loads all partitions of a benchmark in one run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringP("partition", "p", "train", "partition receiving the file (train, validation, test)")
	cmd.Flags().StringP("manifest", "m", "", "dataset manifest mapping partitions to files")
	cmd.Flags().String("separator", "", "field separator (default: tab, comma for .csv)")
	cmd.Flags().Int("chunk-size", 0, "rows written per transaction")
	cmd.Flags().String("indexing", "", "identifier handling: build, skip, or reuse")
	cmd.Flags().String("indexer-dir", "", "directory of the persistent identifier mapping")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := activeConfig(cmd)
	if err != nil {
		return err
	}

	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath == "" && len(args) == 0 {
		return triplederr.New(triplederr.CodeCLIInputInvalid, "pass a source file or --manifest")
	}
	if manifestPath != "" && len(args) > 0 {
		return triplederr.New(triplederr.CodeCLIInputInvalid, "a source file and --manifest are mutually exclusive")
	}

	mode, err := store.ParseIndexingMode(cfg.Storage.Indexing)
	if err != nil {
		return err
	}

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
		slog.Info("no storage.path configured, using throwaway database", "path", dbPath)
	}

	mapper, err := openIndexer(cfg, mode)
	if err != nil {
		return err
	}
	if mapper != nil {
		defer func() { _ = mapper.Close() }()
	}

	s, err := sqlite.Open(sqlite.Config{
		Path:      dbPath,
		ChunkSize: cfg.Storage.ChunkSize,
		Indexing:  mode,
		Indexer:   mapper,
	})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	separator, _ := cmd.Flags().GetString("separator")

	ingest := func(src store.Producer, p store.Partition) error {
		defer func() { _ = src.Close() }()
		res, err := s.Populate(ctx, src, p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Ingested %s rows into %s (%d chunks)\n",
			humanize.Comma(res.Rows), res.Partition, res.Chunks)
		return err
	}

	if manifestPath != "" {
		m, err := source.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		if separator != "" {
			m.Separator = separator
		}
		// The mapping must cover every file before any row is written, or
		// identifiers appearing only in a later partition would be rejected.
		if mode == store.IndexingBuild && !mapper.Frozen() {
			if err := enumerateManifest(ctx, m, mapper, cfg.Storage.ChunkSize); err != nil {
				return err
			}
		}
		for _, entry := range m.Entries() {
			src, err := m.Open(entry, cfg.Storage.ChunkSize)
			if err != nil {
				return err
			}
			if err := ingest(src, entry.Partition); err != nil {
				return err
			}
		}
	} else {
		partitionName, _ := cmd.Flags().GetString("partition")
		p, err := store.ParsePartition(partitionName)
		if err != nil {
			return err
		}
		src, err := source.Open(args[0], source.Options{Separator: separator, ChunkSize: cfg.Storage.ChunkSize})
		if err != nil {
			return err
		}
		if err := ingest(src, p); err != nil {
			return err
		}
	}

	if mapper != nil && mapper.Frozen() {
		_, _ = fmt.Fprintf(out, "Mapping: %s entities, %s relations\n",
			humanize.Comma(mapper.EntityCount()), humanize.Comma(mapper.RelationCount()))
	}
	_, err = fmt.Fprintf(out, "Database: %s\n", dbPath)
	return err
}

// openIndexer builds the identifier mapping backend for the configured
// indexing mode. Skip mode stores literal ids and needs none.
func openIndexer(cfg *config.Config, mode store.IndexingMode) (store.Indexer, error) {
	if mode == store.IndexingSkip {
		return nil, nil
	}
	if cfg.Indexer.Backend == "badger" {
		return indexer.OpenBadger(indexer.BadgerOptions{Dir: cfg.Indexer.Dir})
	}
	if mode == store.IndexingReuse {
		return nil, triplederr.New(triplederr.CodeCLIInputInvalid,
			"reuse indexing needs a persistent mapping; set indexer.backend to badger and indexer.dir to the mapping built during ingestion")
	}
	return indexer.NewMemory(), nil
}

// enumerateManifest runs the identifier pass over every manifest file and
// freezes the mapping.
func enumerateManifest(ctx context.Context, m *source.Manifest, mapper store.Indexer, chunkSize int) error {
	for _, entry := range m.Entries() {
		src, err := m.Open(entry, chunkSize)
		if err != nil {
			return err
		}
		for {
			chunk, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = src.Close()
				return err
			}
			if err := mapper.Add(chunk); err != nil {
				_ = src.Close()
				return err
			}
		}
		if err := src.Close(); err != nil {
			return err
		}
	}
	return mapper.Freeze()
}
