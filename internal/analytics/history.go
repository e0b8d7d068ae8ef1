package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// HistoryMonths is how many months before the current one the history covers.
const HistoryMonths = 3

// HistoryEntry is a past month's budget against spend.
type HistoryEntry struct {
	Month        core.MonthKey
	BudgetAmount decimal.Decimal
	Spent        decimal.Decimal
}

// composeHistory reports the months before now that were tracked, newest
// first. A month is tracked when it has a stored budget (even zero) or a
// nonzero spend.
func (s *Service) composeHistory(ctx context.Context, userID int64, now time.Time) ([]HistoryEntry, error) {
	months := core.MonthsBack(now, HistoryMonths)
	if len(months) == 0 {
		return []HistoryEntry{}, nil
	}

	var budgets, spent map[core.MonthKey]decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.FetchBudgets(gctx, userID, months)
		if err != nil {
			return storeError("fetch budgets", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		spent, err = s.store.FetchExpenseTotals(gctx, userID, months)
		if err != nil {
			return storeError("fetch expense totals", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compose history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(months))
	for _, m := range months {
		budget, hasBudget := budgets[m]
		total, hasSpend := spent[m]
		if !hasBudget && (!hasSpend || total.IsZero()) {
			continue
		}
		entries = append(entries, HistoryEntry{
			Month:        m,
			BudgetAmount: budget.Round(2),
			Spent:        total.Round(2),
		})
	}
	return entries, nil
}
