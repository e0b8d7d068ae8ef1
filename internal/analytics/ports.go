// Package analytics derives budget status, budget history and expense
// forecasts from a user's ledger.
package analytics

//go:generate mockgen -source=ports.go -destination=mock_ledger_store.go -package=analytics

import (
	"context"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// LedgerStore is the persistence the analytics engine reads budgets and
// expense totals from. Implementations must make UpsertBudget atomic per
// (userID, month).
type LedgerStore interface {
	// FetchExpenseTotals sums expense transactions per requested month in one
	// round trip. Months without expenses are absent from the result.
	FetchExpenseTotals(ctx context.Context, userID int64, months []core.MonthKey) (map[core.MonthKey]decimal.Decimal, error)

	// FetchBudgets returns the stored budget of each requested month that has one.
	FetchBudgets(ctx context.Context, userID int64, months []core.MonthKey) (map[core.MonthKey]decimal.Decimal, error)

	// FetchBudget returns the budget for a month and whether one is stored.
	FetchBudget(ctx context.Context, userID int64, month core.MonthKey) (decimal.Decimal, bool, error)

	// UpsertBudget inserts or replaces the budget for a month.
	UpsertBudget(ctx context.Context, userID int64, month core.MonthKey, amount decimal.Decimal) error

	// RecentExpenseTotals returns up to limit most recent months that have
	// expense transactions, oldest first.
	RecentExpenseTotals(ctx context.Context, userID int64, limit int) ([]core.MonthlySpend, error)
}
