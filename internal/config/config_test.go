// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskward/taskward/internal/config"
	"github.com/taskward/taskward/pkg/errutil"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskward.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.String("listen-addr", config.DefaultListenAddr, "")
	fs.String("metrics-addr", config.DefaultMetricsAddr, "")
	fs.String("log-format", config.DefaultLogFormat, "")
	fs.Duration("token-lifetime", config.DefaultTokenLifetime, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, config.DefaultMetricsAddr, cfg.MetricsAddr)
	assert.Equal(t, config.DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, config.DefaultTokenLifetime, cfg.TokenLifetime)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
listen-addr: ":9999"
log-format: text
token-lifetime: 24h
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 24*time.Hour, cfg.TokenLifetime)
	// Untouched keys keep their defaults
	assert.Equal(t, config.DefaultMetricsAddr, cfg.MetricsAddr)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, `listen-addr: ":9999"`)

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--listen-addr", ":7777"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.ListenAddr)
}

func TestLoad_UnchangedFlagDoesNotMaskFile(t *testing.T) {
	path := writeConfigFile(t, `listen-addr: ":9999"`)

	fs := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr, "flag default should not override file value")
}

func TestLoad_EnvOverridesAll(t *testing.T) {
	path := writeConfigFile(t, `
database-url: postgres://file/db
jwt-secret: file-secret
`)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("TASKWARD_JWT_SECRET", "env-secret")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/taskward.yaml", nil)
	errutil.AssertErrorCode(t, err, "CONFIG_FILE_INVALID")
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.DatabaseURL = "postgres://localhost/taskward"
		cfg.JWTSecret = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"missing listen addr", func(c *config.Config) { c.ListenAddr = "" }, "listen-addr"},
		{"missing database url", func(c *config.Config) { c.DatabaseURL = "" }, "database-url"},
		{"missing jwt secret", func(c *config.Config) { c.JWTSecret = "" }, "jwt-secret"},
		{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }, "log-format"},
		{"zero token lifetime", func(c *config.Config) { c.TokenLifetime = 0 }, "token-lifetime"},
		{"bcrypt cost too high", func(c *config.Config) { c.BcryptCost = 99 }, "bcrypt-cost"},
		{"zero shutdown timeout", func(c *config.Config) { c.ShutdownTimeout = 0 }, "shutdown-timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
