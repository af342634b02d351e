// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tripled-dev/tripled/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only introspection API",
		Long: `Expose partition counts, samples, the database summary, and entity-pair
lookups over HTTP. The server never writes; ingestion stays on the CLI.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := activeConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openReadOnly(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Server.Listen,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("serving introspection api",
		slog.String("addr", cfg.Server.Listen),
		slog.String("db", s.Path()),
	)
	return srv.Start(ctx)
}
