package main

import (
	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/pkg/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, a.logger)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.RollbackMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, steps, a.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert")
	cmd.AddCommand(down)

	return cmd
}
