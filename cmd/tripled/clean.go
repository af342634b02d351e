// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop the triples table and its indexes",
		Long: `Drop the triples table and the secondary indexes from the database file,
leaving the file itself in place. With --remove-file the whole database
file is deleted instead.`,
		RunE: runClean,
	}

	cmd.Flags().Bool("remove-file", false, "delete the database file instead of dropping tables")

	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	cfg, err := activeConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openReadOnly(cfg.Storage.Path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if removeFile, _ := cmd.Flags().GetBool("remove-file"); removeFile {
		if err := s.Close(); err != nil {
			return err
		}
		if err := s.Remove(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Removed %s\n", cfg.Storage.Path)
		return err
	}

	defer func() { _ = s.Close() }()
	if err := s.Clean(cmd.Context()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Cleaned %s\n", cfg.Storage.Path)
	return err
}
