// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package config

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Config is the top-level Tripled configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Indexer IndexerConfig `mapstructure:"indexer"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig locates the database file and sets ingestion behavior.
type StorageConfig struct {
	// Path is the SQLite database file. Empty means a throwaway file under
	// the system temp directory, named per run.
	Path      string `mapstructure:"path"`
	ChunkSize int    `mapstructure:"chunk_size"`
	Indexing  string `mapstructure:"indexing"`
}

// IndexerConfig selects where the identifier mapping lives.
type IndexerConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// ServerConfig controls the HTTP introspection surface.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggingConfig controls the process-wide logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every configuration default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.chunk_size", store.DefaultChunkSize)
	v.SetDefault("storage.indexing", string(store.IndexingBuild))
	v.SetDefault("indexer.backend", "memory")
	v.SetDefault("indexer.dir", "")
	v.SetDefault("server.listen", "127.0.0.1:18790")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// SetupEnv binds environment variable overrides (prefix TRIPLED_).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("TRIPLED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, triplederr.Errorf(triplederr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a fully initialized Viper, so callers
// that layer flags on top of files and env share one exit point.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateIndexer()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	if c.Storage.ChunkSize <= 0 {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: storage.chunk_size must be greater than 0, got %d",
			c.Storage.ChunkSize,
		))
	}

	if _, err := store.ParseIndexingMode(c.Storage.Indexing); err != nil {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: storage.indexing must be one of [build, skip, reuse], got %q",
			c.Storage.Indexing,
		))
	}

	return errs
}

func (c *Config) validateIndexer() []error {
	var errs []error

	validBackends := map[string]bool{"memory": true, "badger": true}
	if !validBackends[c.Indexer.Backend] {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: indexer.backend must be one of [memory, badger], got %q",
			c.Indexer.Backend,
		))
	}

	if c.Indexer.Backend == "badger" && c.Indexer.Dir == "" {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: indexer.dir must be set when indexer.backend is badger"))
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	host, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}
	_ = host // host can be empty (e.g., ":8080"), which is valid

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q",
			portStr,
		))
	} else if port < 1 || port > 65535 {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 1 and 65535, got %d",
			port,
		))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: logging.level must be one of [debug, info, warn, error], got %q",
			c.Logging.Level,
		))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, triplederr.Errorf(triplederr.CodeConfigValidateInvalidValue,
			"config: logging.format must be one of [text, json], got %q",
			c.Logging.Format,
		))
	}

	return errs
}

// NewLogger builds a logger for the configured level and format. Unknown
// names have already failed validation; they fall back to info/text here.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
