package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
)

var (
	flagBackend string
	flagDBPath  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "fintrackctl",
	Short:         "Budget administration for fintrack",
	Long:          "Inspect and edit budgets, forecasts and the database schema of a fintrack store.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", config.BackendSQLite, "data backend (memory, sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default from SQLITE_DB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log at debug level")
}

// session is an open store plus the configuration and logger it was built
// with. Callers must close it.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	res    *backend.BackendResult
}

func (s *session) Close() error {
	return s.res.Cleanup()
}

// openSession loads the configuration, applies flag overrides and opens the
// store. The broker is never dialed from the CLI.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := cli.SetupLogger(logLevel(), log.ComponentCLI, cmd.ErrOrStderr())

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.DataBackend, err)
	}
	return &session{cfg: cfg, logger: logger, res: res}, nil
}

func logLevel() string {
	if flagVerbose {
		return "debug"
	}
	return "warn"
}

func loadConfig() (*config.Config, error) {
	cli.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagBackend != "" {
		cfg.DataBackend = flagBackend
	}
	if flagDBPath != "" {
		cfg.SQLiteDBPath = flagDBPath
	}
	cfg.AMQPURL = ""
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requireUser fails with a readable error when the user does not exist.
func (s *session) requireUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("--user is required")
	}
	if _, err := s.res.Store.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}
	return nil
}
