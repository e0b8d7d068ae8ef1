package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{Name: "Test", Email: email, PasswordHash: []byte("hash")})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	return u
}

func TestMigrationsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestUserRoundTripAndDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := seedUser(t, repo, "a@example.com")

	got, err := repo.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []byte("hash"), got.PasswordHash)

	_, err = repo.CreateUser(ctx, core.User{Name: "Other", Email: "a@example.com", PasswordHash: []byte("x")})
	assert.ErrorIs(t, err, core.ErrAlreadyExists)

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpsertBudgetIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@example.com")
	month := core.MonthKey{Year: 2024, Month: time.March}

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, repo.UpsertBudget(ctx, u.ID, month, decimal.NewFromInt(int64(n*100))))
		}(i)
	}
	wg.Wait()
	require.NoError(t, repo.UpsertBudget(ctx, u.ID, month, decimal.RequireFromString("750.25")))

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets WHERE user_id = ?`, u.ID).Scan(&count))
	assert.Equal(t, 1, count)

	amount, ok, err := repo.FetchBudget(ctx, u.ID, month)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "750.25", amount.StringFixed(2))
}

func TestUpsertBudgetUnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.UpsertBudget(context.Background(), 999, core.MonthKey{Year: 2024, Month: time.January}, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFetchBudgetsIncludesZeroBudget(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@example.com")
	jan := core.MonthKey{Year: 2024, Month: time.January}
	dec := core.MonthKey{Year: 2023, Month: time.December}

	require.NoError(t, repo.UpsertBudget(ctx, u.ID, jan, decimal.Zero))

	budgets, err := repo.FetchBudgets(ctx, u.ID, []core.MonthKey{jan, dec})
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[jan].IsZero())

	_, ok, err := repo.FetchBudget(ctx, u.ID, dec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpenseAggregation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := seedUser(t, repo, "a@example.com")
	b := seedUser(t, repo, "b@example.com")

	add := func(userID int64, kind core.TransactionKind, amount string, date core.Date) {
		t.Helper()
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID: userID, Category: "Food", Amount: decimal.RequireFromString(amount), Kind: kind, OccurredOn: date,
		})
		require.NoError(t, err)
	}
	add(a.ID, core.Expense, "10.10", core.NewDate(2024, 3, 1))
	add(a.ID, core.Expense, "0.20", core.NewDate(2024, 3, 31))
	add(a.ID, core.Income, "2500", core.NewDate(2024, 3, 10))
	add(a.ID, core.Expense, "40", core.NewDate(2024, 1, 15))
	add(b.ID, core.Expense, "99", core.NewDate(2024, 3, 2))

	march := core.MonthKey{Year: 2024, Month: time.March}
	feb := core.MonthKey{Year: 2024, Month: time.February}
	jan := core.MonthKey{Year: 2024, Month: time.January}

	totals, err := repo.FetchExpenseTotals(ctx, a.ID, []core.MonthKey{march, feb, jan})
	require.NoError(t, err)
	assert.Equal(t, "10.30", totals[march].StringFixed(2))
	assert.Equal(t, "40.00", totals[jan].StringFixed(2))
	_, ok := totals[feb]
	assert.False(t, ok)

	empty, err := repo.FetchExpenseTotals(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	recent, err := repo.RecentExpenseTotals(ctx, a.ID, 6)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, jan, recent[0].Month)
	assert.Equal(t, march, recent[1].Month)

	sum, err := repo.LedgerSummary(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2500.00", sum.Income.StringFixed(2))
	assert.Equal(t, "50.30", sum.Expense.StringFixed(2))
	assert.Equal(t, "2449.70", sum.Saving().StringFixed(2))
}

func TestTransactionsAndGoalsOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@example.com")

	for _, d := range []core.Date{core.NewDate(2024, 1, 5), core.NewDate(2024, 3, 1), core.NewDate(2024, 2, 10)} {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID: u.ID, Category: "c", Amount: decimal.NewFromInt(1), Kind: core.Expense, OccurredOn: d,
		})
		require.NoError(t, err)
	}
	txs, err := repo.ListTransactions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "2024-03-01", txs[0].OccurredOn.String())
	assert.Equal(t, "2024-01-05", txs[2].OccurredOn.String())

	_, err = repo.CreateGoal(ctx, core.Goal{UserID: u.ID, Name: "Bike", Target: decimal.NewFromInt(500), Date: core.NewDate(2025, 1, 1), Status: core.GoalInProgress})
	require.NoError(t, err)
	_, err = repo.CreateGoal(ctx, core.Goal{UserID: u.ID, Name: "Car", Target: decimal.NewFromInt(9000), Date: core.NewDate(2026, 1, 1), Status: core.GoalCompleted})
	require.NoError(t, err)

	goals, err := repo.ListGoals(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Car", goals[0].Name)

	sum, err := repo.LedgerSummary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.ActiveGoals)
}
