package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQLite migrations and print the schema version",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DataBackend != config.BackendSQLite {
		return fmt.Errorf("migrate needs the %s backend, got %s", config.BackendSQLite, cfg.DataBackend)
	}

	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		return err
	}
	version, dirty, err := storage.SchemaVersion(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(logLevel(), log.ComponentCLI, cmd.ErrOrStderr())
	logger.Debug("Migrations applied", log.FieldOperation, log.OpMigrate, "version", version, "dirty", dirty)

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (%s)\n", cfg.SQLiteDBPath, version, state)
	return nil
}
