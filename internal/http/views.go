package http

import (
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// Wire shapes. Amounts are sent as numbers rounded to cents.

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type currentBudgetView struct {
	MonthYear     core.MonthKey `json:"month_year"`
	Amount        float64       `json:"amount"`
	Spent         float64       `json:"spent"`
	Remaining     float64       `json:"remaining"`
	RemainingDays int           `json:"remaining_days"`
	Note          string        `json:"note"`
}

type historyView struct {
	MonthYear core.MonthKey `json:"month_year"`
	Amount    float64       `json:"amount"`
	Spent     float64       `json:"spent"`
}

type transactionView struct {
	ID        int64   `json:"txn_id"`
	UserID    int64   `json:"user_id"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"created_at"`
}

type goalView struct {
	ID     int64   `json:"goal_id"`
	UserID int64   `json:"user_id"`
	Name   string  `json:"name"`
	Target float64 `json:"target"`
	Saved  float64 `json:"saved"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

type dashboardView struct {
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Saving      float64 `json:"saving"`
	ActiveGoals int     `json:"active_goals"`
}

func newUserView(u core.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}

func newCurrentBudgetView(s analytics.BudgetStatus) currentBudgetView {
	return currentBudgetView{
		MonthYear:     s.Month,
		Amount:        core.Float(s.BudgetAmount),
		Spent:         core.Float(s.Spent),
		Remaining:     core.Float(s.Remaining),
		RemainingDays: s.RemainingDays,
		Note:          s.Note,
	}
}

func newHistoryViews(entries []analytics.HistoryEntry) []historyView {
	out := make([]historyView, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyView{
			MonthYear: e.Month,
			Amount:    core.Float(e.BudgetAmount),
			Spent:     core.Float(e.Spent),
		})
	}
	return out
}

func newTransactionViews(txns []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txns))
	for _, t := range txns {
		out = append(out, transactionView{
			ID:        t.ID,
			UserID:    t.UserID,
			Category:  t.Category,
			Amount:    core.Float(t.Amount),
			Type:      string(t.Kind),
			Date:      t.OccurredOn.String(),
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func newGoalViews(goals []core.Goal) []goalView {
	out := make([]goalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalView{
			ID:     g.ID,
			UserID: g.UserID,
			Name:   g.Name,
			Target: core.Float(g.Target),
			Saved:  core.Float(g.Saved),
			Date:   g.Date.String(),
			Status: string(g.Status),
		})
	}
	return out
}

func newDashboardView(s core.LedgerSummary) dashboardView {
	return dashboardView{
		Income:      core.Float(s.Income),
		Expense:     core.Float(s.Expense),
		Saving:      core.Float(s.Saving()),
		ActiveGoals: s.ActiveGoals,
	}
}

// monthLabels renders forecast labels; a nil slice would encode as null.
func monthLabels(keys []core.MonthKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

func nonNil(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}
