// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [partition]",
		Short: "Count stored triples",
		Long: `Report row counts per partition, or for one partition when named. A store
whose triples table has been cleaned away counts as empty, not as an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCount,
	}

	cmd.Flags().String("where", "", "count rows matching a SQL condition instead")

	return cmd
}

const noTableMessage = "no triples table (database is clean)"

func runCount(cmd *cobra.Command, args []string) error {
	cfg, err := activeConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openReadOnly(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if where, _ := cmd.Flags().GetString("where"); where != "" {
		if len(args) > 0 {
			return triplederr.New(triplederr.CodeCLIInputInvalid, "a partition argument and --where are mutually exclusive")
		}
		n, ok, err := s.CountWhere(ctx, where)
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintln(out, noTableMessage)
			return err
		}
		_, err = fmt.Fprintln(out, humanize.Comma(n))
		return err
	}

	if len(args) == 1 {
		p, err := store.ParsePartition(args[0])
		if err != nil {
			return err
		}
		n, ok, err := s.CountPartition(ctx, p)
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintln(out, noTableMessage)
			return err
		}
		_, err = fmt.Fprintln(out, humanize.Comma(n))
		return err
	}

	total, ok, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if !ok {
		_, err = fmt.Fprintln(out, noTableMessage)
		return err
	}
	for _, p := range store.Partitions() {
		n, _, err := s.CountPartition(ctx, p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%-12s %s\n", p, humanize.Comma(n)); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "%-12s %s\n", "total", humanize.Comma(total))
	return err
}
