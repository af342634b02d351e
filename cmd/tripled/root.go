// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tripled-dev/tripled/internal/config"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// vp is the configuration snapshot for the executing command. initViper
// rebuilds it from scratch on every execution, so repeated Execute calls
// (tests, embedding) never see state from an earlier run.
var vp = viper.New()

// NewRootCmd creates the root tripled command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripled",
		Short:         "Tripled — knowledge-graph triple store",
		Long:          "Tripled ingests knowledge-graph triples into a single SQLite file and serves partitioned counts, samples, and entity lookups over it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags — these map to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("db", "", "path to the database file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Register subcommands
	root.AddCommand(
		newIngestCmd(),
		newCountCmd(),
		newSummaryCmd(),
		newCleanCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper builds a fresh Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.New()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return triplederr.Errorf(triplederr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// Auto-discover tripled.yaml from standard locations.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./tripled binary in the project root.
		v.SetConfigName("tripled")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tripled")
		v.AddConfigPath("/etc/tripled")
		// No config file is fine — defaults and env vars still apply.
		// Parse or permission errors must surface.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return triplederr.Errorf(triplederr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
			// No config found anywhere — bootstrap a default to ~/.config/tripled/.
			if path := config.BootstrapConfig(); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return triplederr.Errorf(triplederr.CodeConfigLoadReadFailure, "reading bootstrapped config: %w", err)
				}
			}
		}
	}

	// Bind persistent flags to viper keys.
	if err := v.BindPFlag("storage.path", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
		return triplederr.Errorf(triplederr.CodeCLISetupFailure, "binding db flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return triplederr.Errorf(triplederr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	// Bind whichever command-local overrides the executing command declares.
	for key, name := range map[string]string{
		"storage.chunk_size": "chunk-size",
		"storage.indexing":   "indexing",
		"indexer.dir":        "indexer-dir",
		"server.listen":      "listen",
	} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return triplederr.Errorf(triplederr.CodeCLISetupFailure, "binding %s flag: %w", name, err)
		}
	}

	vp = v
	return nil
}

// activeConfig materializes and validates the configuration initViper
// resolved, then installs the process logger.
func activeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromViper(vp)
	if err != nil {
		return nil, err
	}
	if vp.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}
	slog.SetDefault(cfg.Logging.NewLogger(cmd.ErrOrStderr()))
	return cfg, nil
}
