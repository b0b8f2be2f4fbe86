// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/taskward/taskward/internal/config"
	"github.com/taskward/taskward/internal/store"
)

// NewMigrateCmd creates the migrate subcommand and its up/down/version
// subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long:  `Apply, roll back, or inspect schema migrations against the PostgreSQL database.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destructive)",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE:  runMigrateVersion,
	})

	return cmd
}

// migrateDatabaseURL resolves the database URL from the config file and
// environment. The migrate subcommands need nothing else from the config,
// so the full Validate is deliberately not applied here.
func migrateDatabaseURL() (string, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("database-url is required (set DATABASE_URL)")
	}
	return cfg.DatabaseURL, nil
}

func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	databaseURL, err := migrateDatabaseURL()
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	return fn(migrator)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		cmd.Println("Applying migrations...")
		if err := m.Up(); err != nil {
			return err
		}
		cmd.Println("Migrations applied successfully")
		return nil
	})
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		cmd.Println("Rolling back all migrations...")
		if err := m.Down(); err != nil {
			return err
		}
		cmd.Println("Rollback completed")
		return nil
	})
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			cmd.Println("No migrations applied")
			return nil
		}
		cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
		return nil
	})
}
