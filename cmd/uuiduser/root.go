// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package main

import (
	"github.com/spf13/cobra"

	"github.com/unbservices/uuiduser/internal/config"
	"github.com/unbservices/uuiduser/internal/logging"
)

// Global flags available to all subcommands.
var (
	configFile string
	logFormat  string
)

// NewRootCmd creates the root command for the uuiduser CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uuiduser",
		Short: "uuiduser - UUID-keyed identity service",
		Long: `uuiduser manages UUID-keyed identities with optional usernames,
argon2id credentials, email fallback authentication and password
reset tokens, backed by PostgreSQL.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetDefault("uuiduser", cmd.Root().Version, logFormat)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&logFormat, "log_format", "text", "log format (text or json)")

	// Add subcommands
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

// loadConfig resolves configuration from the --config file and the
// command's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}
