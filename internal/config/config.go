// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

// Package config loads and validates server configuration.
//
// Values are merged in increasing order of precedence: built-in
// defaults, an optional YAML config file, command-line flags, and
// finally environment variables for the two secrets-bearing settings
// (DATABASE_URL, TASKWARD_JWT_SECRET).
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// Default values for server configuration.
const (
	DefaultListenAddr      = ":8080"
	DefaultMetricsAddr     = "127.0.0.1:9100"
	DefaultLogFormat       = "json"
	DefaultTokenLifetime   = 7 * 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the full server configuration.
type Config struct {
	// ListenAddr is the API server listen address.
	ListenAddr string `koanf:"listen-addr"`
	// MetricsAddr is the observability server address. Empty disables it.
	MetricsAddr string `koanf:"metrics-addr"`
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database-url"`
	// JWTSecret signs and verifies access tokens.
	JWTSecret string `koanf:"jwt-secret"`
	// TokenLifetime is how long minted tokens stay valid.
	TokenLifetime time.Duration `koanf:"token-lifetime"`
	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt-cost"`
	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown-timeout"`
	// AutoMigrate runs pending schema migrations at startup.
	AutoMigrate bool `koanf:"auto-migrate"`
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		MetricsAddr:     DefaultMetricsAddr,
		TokenLifetime:   DefaultTokenLifetime,
		BcryptCost:      bcrypt.DefaultCost,
		LogFormat:       DefaultLogFormat,
		ShutdownTimeout: DefaultShutdownTimeout,
		AutoMigrate:     true,
	}
}

// Load builds a Config from defaults, an optional YAML file at path,
// and the given flag set. Either may be empty/nil. Environment
// variables DATABASE_URL and TASKWARD_JWT_SECRET override all other
// sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_INVALID").
				With("path", path).
				Wrapf(err, "load config file")
		}
	}

	if flags != nil {
		// Flags left at their defaults only apply when the file did
		// not already set the key.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrapf(err, "load flags")
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrapf(err, "unmarshal config")
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("TASKWARD_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	return &cfg, nil
}

// Validate checks that the configuration is complete and consistent.
func (cfg *Config) Validate() error {
	if cfg.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen-addr is required")
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required (set DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("jwt-secret is required (set TASKWARD_JWT_SECRET)")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log-format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if cfg.TokenLifetime <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("token-lifetime must be positive")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return oops.Code("CONFIG_INVALID").
			Errorf("bcrypt-cost must be between %d and %d, got %d",
				bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}
	if cfg.ShutdownTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("shutdown-timeout must be positive")
	}
	return nil
}
