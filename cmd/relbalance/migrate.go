package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/relbalance/internal/domain"
	"github.com/iho/relbalance/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	var path string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the transactions schema",
	}
	migrateCmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (default MIGRATIONS_PATH)")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, path, postgres.RunMigrations)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, path, postgres.RunMigrationsDown)
		},
	})

	return migrateCmd
}

type migrateFunc func(databaseURL, migrationsPath string, logger zerolog.Logger) error

func runMigrate(cmd *cobra.Command, path string, fn migrateFunc) error {
	cfg, log, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return domain.ErrSourceUnavailable
	}

	if path == "" {
		path = cfg.MigrationsPath
	}

	return fn(cfg.DatabaseURL, path, log)
}
