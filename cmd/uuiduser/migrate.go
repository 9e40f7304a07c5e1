// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/unbservices/uuiduser/internal/store"
)

// migrator abstracts store.Migrator for command tests.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (version uint, dirty bool, err error)
	PendingMigrations() ([]uint, error)
	Close() error
}

// newMigrator is replaced in tests.
var newMigrator = func(databaseURL string) (migrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var (
		down         bool
		steps        int
		forceVersion int
		status       bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply pending database migrations against the PostgreSQL database.

With --down the full schema is rolled back. --steps applies a fixed
number of migrations (negative rolls back). --force recovers from a
dirty migration state by setting the version without running anything.
--status only reports the current state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			m, err := newMigrator(cfg.DatabaseURL)
			if err != nil {
				return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
			}
			defer func() {
				if closeErr := m.Close(); closeErr != nil {
					cmd.PrintErrln("warning: failed to close migrator:", closeErr)
				}
			}()

			switch {
			case status:
				return printMigrationStatus(cmd, m)
			case forceVersion >= 0:
				cmd.Printf("Forcing migration version to %d...\n", forceVersion)
				if err := m.Force(forceVersion); err != nil {
					return err
				}
			case steps != 0:
				cmd.Printf("Applying %d migration step(s)...\n", steps)
				if err := m.Steps(steps); err != nil {
					return err
				}
			case down:
				cmd.Println("Rolling back all migrations...")
				if err := m.Down(); err != nil {
					return err
				}
			default:
				cmd.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return err
				}
			}

			return printMigrationStatus(cmd, m)
		},
	}

	cmd.Flags().String("database_url", "", "PostgreSQL connection URL")
	cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations")
	cmd.Flags().IntVar(&steps, "steps", 0, "apply n migrations (negative rolls back)")
	cmd.Flags().IntVar(&forceVersion, "force", -1, "force migration version (recovery only)")
	cmd.Flags().BoolVar(&status, "status", false, "show migration status without applying")

	return cmd
}

func printMigrationStatus(cmd *cobra.Command, m migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	if version == 0 {
		cmd.Println("Schema version: none")
	} else {
		name, nameErr := store.MigrationName(version)
		if nameErr != nil || name == "" {
			cmd.Printf("Schema version: %d\n", version)
		} else {
			cmd.Printf("Schema version: %d (%s)\n", version, name)
		}
	}
	if dirty {
		cmd.Println("State: DIRTY - a migration failed partway; fix the database and use --force")
	}

	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("Pending migrations: none")
		return nil
	}
	for _, v := range pending {
		name, nameErr := store.MigrationName(v)
		if nameErr != nil || name == "" {
			cmd.Printf("Pending: %d\n", v)
			continue
		}
		cmd.Printf("Pending: %s\n", name)
	}
	return nil
}
