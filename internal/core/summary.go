package core

import "github.com/shopspring/decimal"

// LedgerSummary is the all-time overview shown on a user's dashboard.
type LedgerSummary struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	ActiveGoals int
}

// Saving is what remains of income after expenses; it may be negative.
func (s LedgerSummary) Saving() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}
