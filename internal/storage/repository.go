package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// timestampLayout is fixed width so that TEXT columns sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// dsn enables foreign keys and a busy timeout on every pooled connection.
func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(timestampLayout)
}

// classify maps driver constraint failures onto domain errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", core.ErrNotFound, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", core.ErrAlreadyExists, err)
	}
	return err
}

// FetchExpenseTotals implements analytics.LedgerStore.
func (r *SQLiteRepository) FetchExpenseTotals(ctx context.Context, userID int64, months []core.MonthKey) (map[core.MonthKey]decimal.Decimal, error) {
	rows, err := r.queries.SumExpensesForMonths(ctx, userID, monthStrings(months))
	if err != nil {
		return nil, fmt.Errorf("sum expenses for months: %w", err)
	}
	return monthTotalsMap(rows)
}

// FetchBudgets implements analytics.LedgerStore.
func (r *SQLiteRepository) FetchBudgets(ctx context.Context, userID int64, months []core.MonthKey) (map[core.MonthKey]decimal.Decimal, error) {
	rows, err := r.queries.ListBudgetsForMonths(ctx, userID, monthStrings(months))
	if err != nil {
		return nil, fmt.Errorf("list budgets for months: %w", err)
	}
	return monthTotalsMap(rows)
}

// FetchBudget implements analytics.LedgerStore.
func (r *SQLiteRepository) FetchBudget(ctx context.Context, userID int64, month core.MonthKey) (decimal.Decimal, bool, error) {
	cents, err := r.queries.GetBudget(ctx, userID, month.String())
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get budget: %w", err)
	}
	return core.FromCents(cents), true, nil
}

// UpsertBudget implements analytics.LedgerStore. The write is a single
// statement so concurrent setters never produce two rows for one month.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID int64, month core.MonthKey, amount decimal.Decimal) error {
	err := r.queries.UpsertBudget(ctx, UpsertBudgetParams{
		UserID:      userID,
		MonthKey:    month.String(),
		AmountCents: core.ToCents(amount),
		UpdatedAt:   r.timestamp(),
	})
	if err != nil {
		return fmt.Errorf("upsert budget: %w", classify(err))
	}

	slog.DebugContext(ctx, "Budget saved to SQLite",
		"user_id", userID,
		"month", month.String(),
		"amount", amount.StringFixed(2))
	return nil
}

// RecentExpenseTotals implements analytics.LedgerStore.
func (r *SQLiteRepository) RecentExpenseTotals(ctx context.Context, userID int64, limit int) ([]core.MonthlySpend, error) {
	if limit <= 0 {
		return []core.MonthlySpend{}, nil
	}
	rows, err := r.queries.RecentExpenseTotals(ctx, userID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent expense totals: %w", err)
	}

	out := make([]core.MonthlySpend, 0, len(rows))
	for _, row := range rows {
		month, err := core.ParseMonthKey(row.MonthKey)
		if err != nil {
			return nil, fmt.Errorf("parse month %q: %w", row.MonthKey, err)
		}
		out = append(out, core.MonthlySpend{Month: month, Total: core.FromCents(row.TotalCents)})
	}
	// Query returns newest first; callers expect oldest first.
	slices.Reverse(out)
	return out, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	createdAt := r.now().UTC()
	id, err := r.queries.CreateUser(ctx, CreateUserParams{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    createdAt.Format(timestampLayout),
	})
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", classify(err))
	}
	u.ID = id
	u.CreatedAt = createdAt

	slog.InfoContext(ctx, "User saved to SQLite", "id", id)
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", classify(err))
	}
	return userFromRow(row)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", classify(err))
	}
	return userFromRow(row)
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	createdAt := r.now().UTC()
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:      t.UserID,
		Category:    t.Category,
		AmountCents: core.ToCents(t.Amount),
		Kind:        string(t.Kind),
		OccurredOn:  t.OccurredOn.String(),
		CreatedAt:   createdAt.Format(timestampLayout),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", classify(err))
	}
	t.ID = id
	t.CreatedAt = createdAt

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"user_id", t.UserID,
		"kind", t.Kind,
		"amount", t.Amount.StringFixed(2),
		"date", t.OccurredOn.String())
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		occurred, err := core.ParseDate(row.OccurredOn)
		if err != nil {
			return nil, fmt.Errorf("parse transaction %d date: %w", row.ID, err)
		}
		createdAt, err := time.Parse(timestampLayout, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse transaction %d created_at: %w", row.ID, err)
		}
		out = append(out, core.Transaction{
			ID:         row.ID,
			UserID:     row.UserID,
			Category:   row.Category,
			Amount:     core.FromCents(row.AmountCents),
			Kind:       core.TransactionKind(row.Kind),
			OccurredOn: occurred,
			CreatedAt:  createdAt,
		})
	}
	return out, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	id, err := r.queries.CreateGoal(ctx, CreateGoalParams{
		UserID:      g.UserID,
		Name:        g.Name,
		TargetCents: core.ToCents(g.Target),
		SavedCents:  core.ToCents(g.Saved),
		TargetDate:  g.Date.String(),
		Status:      string(g.Status),
	})
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", classify(err))
	}
	g.ID = id

	slog.InfoContext(ctx, "Goal saved to SQLite", "id", id, "user_id", g.UserID)
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("parse goal %d date: %w", row.ID, err)
		}
		out = append(out, core.Goal{
			ID:     row.ID,
			UserID: row.UserID,
			Name:   row.Name,
			Target: core.FromCents(row.TargetCents),
			Saved:  core.FromCents(row.SavedCents),
			Date:   date,
			Status: core.GoalStatus(row.Status),
		})
	}
	return out, nil
}

// LedgerSummary returns all-time income and expense totals plus the number
// of goals not yet completed.
func (r *SQLiteRepository) LedgerSummary(ctx context.Context, userID int64) (core.LedgerSummary, error) {
	sums, err := r.queries.SumByKind(ctx, userID)
	if err != nil {
		return core.LedgerSummary{}, fmt.Errorf("sum by kind: %w", err)
	}
	active, err := r.queries.CountActiveGoals(ctx, userID)
	if err != nil {
		return core.LedgerSummary{}, fmt.Errorf("count active goals: %w", err)
	}
	return core.LedgerSummary{
		Income:      core.FromCents(sums[string(core.Income)]),
		Expense:     core.FromCents(sums[string(core.Expense)]),
		ActiveGoals: int(active),
	}, nil
}

func userFromRow(row UserRow) (core.User, error) {
	createdAt, err := time.Parse(timestampLayout, row.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("parse user %d created_at: %w", row.ID, err)
	}
	return core.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

func monthStrings(months []core.MonthKey) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.String()
	}
	return out
}

func monthTotalsMap(rows []MonthTotalRow) (map[core.MonthKey]decimal.Decimal, error) {
	out := make(map[core.MonthKey]decimal.Decimal, len(rows))
	for _, row := range rows {
		month, err := core.ParseMonthKey(row.MonthKey)
		if err != nil {
			return nil, fmt.Errorf("parse month %q: %w", row.MonthKey, err)
		}
		out[month] = core.FromCents(row.TotalCents)
	}
	return out, nil
}
