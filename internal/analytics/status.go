package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

const (
	NoteNoBudget   = "No budget set for this month."
	NoteOverBudget = "🚨 Over budget — time to cut expenses!"
	NoteHealthy    = "✅ All good — you're managing well!"
	NoteEdge       = "⚠️ You're at the edge, spend carefully!"
)

// Band classifies how much of a budget is left.
type Band int

const (
	BandNoBudget Band = iota
	BandOver
	BandHealthy
	BandCaution // 10% to 40% left
	BandCritical
)

var (
	healthyThreshold = decimal.NewFromFloat(0.40)
	cautionThreshold = decimal.NewFromFloat(0.10)
)

// Note returns the user-facing note of the band. Caution and critical share
// the same text.
func (b Band) Note() string {
	switch b {
	case BandOver:
		return NoteOverBudget
	case BandHealthy:
		return NoteHealthy
	case BandCaution, BandCritical:
		return NoteEdge
	default:
		return NoteNoBudget
	}
}

// Alerting reports whether the band warrants a budget alert.
func (b Band) Alerting() bool {
	return b == BandOver || b == BandCaution || b == BandCritical
}

// BudgetStatus is the current month's budget against spend.
type BudgetStatus struct {
	Month         core.MonthKey
	BudgetAmount  decimal.Decimal
	Spent         decimal.Decimal
	Remaining     decimal.Decimal
	RemainingDays int
	Band          Band
	Note          string
}

// EvaluateStatus combines a month's budget and spend into a BudgetStatus.
// budgetSet distinguishes a missing budget from one stored as zero; both
// produce the no-budget note.
func EvaluateStatus(month core.MonthKey, budget decimal.Decimal, budgetSet bool, spent decimal.Decimal, remainingDays int) BudgetStatus {
	remaining := budget.Sub(spent).Round(2)
	band := classify(budget, budgetSet, remaining)
	return BudgetStatus{
		Month:         month,
		BudgetAmount:  budget.Round(2),
		Spent:         spent.Round(2),
		Remaining:     remaining,
		RemainingDays: max(0, remainingDays),
		Band:          band,
		Note:          band.Note(),
	}
}

func classify(budget decimal.Decimal, budgetSet bool, remaining decimal.Decimal) Band {
	if !budgetSet || !budget.IsPositive() {
		return BandNoBudget
	}
	if remaining.IsNegative() {
		return BandOver
	}
	pct := remaining.Div(budget)
	switch {
	case pct.GreaterThanOrEqual(healthyThreshold):
		return BandHealthy
	case pct.GreaterThanOrEqual(cautionThreshold):
		return BandCaution
	default:
		return BandCritical
	}
}
