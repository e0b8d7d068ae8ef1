package storage

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the SQL statements of the repository.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Row types mirror the table columns.
type (
	UserRow struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash []byte
		CreatedAt    string
	}

	TransactionRow struct {
		ID          int64
		UserID      int64
		Category    string
		AmountCents int64
		Kind        string
		OccurredOn  string
		CreatedAt   string
	}

	GoalRow struct {
		ID          int64
		UserID      int64
		Name        string
		TargetCents int64
		SavedCents  int64
		TargetDate  string
		Status      string
	}

	MonthTotalRow struct {
		MonthKey   string
		TotalCents int64
	}
)

const createUser = `INSERT INTO users (name, email, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id`

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createUser, arg.Name, arg.Email, arg.PasswordHash, arg.CreatedAt).Scan(&id)
	return id, err
}

const getUserByEmail = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (UserRow, error) {
	var u UserRow
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUser = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`

func (q *Queries) GetUser(ctx context.Context, id int64) (UserRow, error) {
	var u UserRow
	err := q.db.QueryRowContext(ctx, getUser, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const upsertBudget = `INSERT INTO budgets (user_id, month_key, amount_cents, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, month_key) DO UPDATE SET
    amount_cents = excluded.amount_cents,
    updated_at   = excluded.updated_at`

type UpsertBudgetParams struct {
	UserID      int64
	MonthKey    string
	AmountCents int64
	UpdatedAt   string
}

func (q *Queries) UpsertBudget(ctx context.Context, arg UpsertBudgetParams) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, arg.UserID, arg.MonthKey, arg.AmountCents, arg.UpdatedAt)
	return err
}

const getBudget = `SELECT amount_cents FROM budgets WHERE user_id = ? AND month_key = ?`

func (q *Queries) GetBudget(ctx context.Context, userID int64, monthKey string) (int64, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, getBudget, userID, monthKey).Scan(&cents)
	return cents, err
}

const listBudgetsForMonths = `SELECT month_key, amount_cents FROM budgets
WHERE user_id = ? AND month_key IN (/*MONTHS*/)`

func (q *Queries) ListBudgetsForMonths(ctx context.Context, userID int64, monthKeys []string) ([]MonthTotalRow, error) {
	return q.monthTotals(ctx, listBudgetsForMonths, userID, monthKeys)
}

const sumExpensesForMonths = `SELECT substr(occurred_on, 1, 7) AS month_key, SUM(amount_cents) AS total_cents
FROM transactions
WHERE user_id = ? AND kind = 'expense' AND substr(occurred_on, 1, 7) IN (/*MONTHS*/)
GROUP BY month_key`

func (q *Queries) SumExpensesForMonths(ctx context.Context, userID int64, monthKeys []string) ([]MonthTotalRow, error) {
	return q.monthTotals(ctx, sumExpensesForMonths, userID, monthKeys)
}

const recentExpenseTotals = `SELECT substr(occurred_on, 1, 7) AS month_key, SUM(amount_cents) AS total_cents
FROM transactions
WHERE user_id = ? AND kind = 'expense'
GROUP BY month_key
ORDER BY month_key DESC
LIMIT ?`

func (q *Queries) RecentExpenseTotals(ctx context.Context, userID int64, limit int64) ([]MonthTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, recentExpenseTotals, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanMonthTotals(rows)
}

const createTransaction = `INSERT INTO transactions (user_id, category, amount_cents, kind, occurred_on, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

type CreateTransactionParams struct {
	UserID      int64
	Category    string
	AmountCents int64
	Kind        string
	OccurredOn  string
	CreatedAt   string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID, arg.Category, arg.AmountCents, arg.Kind, arg.OccurredOn, arg.CreatedAt,
	).Scan(&id)
	return id, err
}

const listTransactions = `SELECT id, user_id, category, amount_cents, kind, occurred_on, created_at
FROM transactions
WHERE user_id = ?
ORDER BY occurred_on DESC, created_at DESC, id DESC`

func (q *Queries) ListTransactions(ctx context.Context, userID int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(&t.ID, &t.UserID, &t.Category, &t.AmountCents, &t.Kind, &t.OccurredOn, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumByKind = `SELECT kind, COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = ? GROUP BY kind`

func (q *Queries) SumByKind(ctx context.Context, userID int64) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, sumByKind, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var kind string
		var total int64
		if err := rows.Scan(&kind, &total); err != nil {
			return nil, err
		}
		out[kind] = total
	}
	return out, rows.Err()
}

const createGoal = `INSERT INTO goals (user_id, name, target_cents, saved_cents, target_date, status)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

type CreateGoalParams struct {
	UserID      int64
	Name        string
	TargetCents int64
	SavedCents  int64
	TargetDate  string
	Status      string
}

func (q *Queries) CreateGoal(ctx context.Context, arg CreateGoalParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createGoal,
		arg.UserID, arg.Name, arg.TargetCents, arg.SavedCents, arg.TargetDate, arg.Status,
	).Scan(&id)
	return id, err
}

const listGoals = `SELECT id, user_id, name, target_cents, saved_cents, target_date, status
FROM goals
WHERE user_id = ?
ORDER BY id DESC`

func (q *Queries) ListGoals(ctx context.Context, userID int64) ([]GoalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GoalRow
	for rows.Next() {
		var g GoalRow
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetCents, &g.SavedCents, &g.TargetDate, &g.Status); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const countActiveGoals = `SELECT COUNT(*) FROM goals WHERE user_id = ? AND status <> 'completed'`

func (q *Queries) CountActiveGoals(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countActiveGoals, userID).Scan(&n)
	return n, err
}

// monthTotals expands the /*MONTHS*/ marker into one placeholder per key.
func (q *Queries) monthTotals(ctx context.Context, query string, userID int64, monthKeys []string) ([]MonthTotalRow, error) {
	if len(monthKeys) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(monthKeys)), ",")
	query = strings.Replace(query, "/*MONTHS*/", placeholders, 1)

	args := make([]interface{}, 0, len(monthKeys)+1)
	args = append(args, userID)
	for _, k := range monthKeys {
		args = append(args, k)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanMonthTotals(rows)
}

func scanMonthTotals(rows *sql.Rows) ([]MonthTotalRow, error) {
	defer rows.Close()

	var out []MonthTotalRow
	for rows.Next() {
		var r MonthTotalRow
		if err := rows.Scan(&r.MonthKey, &r.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
