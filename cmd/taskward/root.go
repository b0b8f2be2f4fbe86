// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the taskward CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskward",
		Short: "Taskward - a multi-user todo tracker",
		Long: `Taskward is a multi-user todo tracker with token-based
authentication, backed by PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
