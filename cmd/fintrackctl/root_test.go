package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/analytics"
	"fintrack/internal/config"
	"fintrack/internal/core"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	flagBackend, flagDBPath, flagVerbose = config.BackendSQLite, "", false
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("FINTRACK_CONFIG", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "info")
	return filepath.Join(t.TempDir(), "data", "fintrack.db")
}

func TestBudgetCommands(t *testing.T) {
	db := setupEnv(t)

	out, err := execute(t, "user", "add", "--db", db, "--name", "Ada", "--email", "Ada@Example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user 1 <ada@example.com>")

	out, err = execute(t, "budget", "set", "--db", db, "--user", "1", "--amount", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "set to 500.00")

	out, err = execute(t, "budget", "status", "--db", db, "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "0.00")
	assert.Contains(t, out, analytics.NoteHealthy)
	assert.NotContains(t, out, "Previous months")

	out, err = execute(t, "forecast", "--db", db, "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses recorded yet.")
}

func TestBudgetCommands_Errors(t *testing.T) {
	db := setupEnv(t)

	t.Run("unknown user", func(t *testing.T) {
		_, err := execute(t, "budget", "status", "--db", db, "--user", "99")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, err := execute(t, "user", "add", "--db", db, "--name", "Bob", "--email", "bob@example.com", "--password", "pw")
		require.NoError(t, err)

		_, err = execute(t, "budget", "set", "--db", db, "--user", "1", "--amount", "lots")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidAmount)
	})

	t.Run("duplicate account", func(t *testing.T) {
		_, err := execute(t, "user", "add", "--db", db, "--name", "Bob", "--email", "BOB@example.com", "--password", "pw")
		assert.ErrorIs(t, err, core.ErrAlreadyExists)
	})

	t.Run("invalid backend", func(t *testing.T) {
		_, err := execute(t, "budget", "status", "--backend", "postgres", "--db", db, "--user", "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid data backend")
	})
}

func TestMigrate(t *testing.T) {
	db := setupEnv(t)

	out, err := execute(t, "migrate", "--backend", "sqlite", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1 (clean)")

	_, err = execute(t, "migrate", "--backend", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs the sqlite backend")
}
