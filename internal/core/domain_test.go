package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.MonthKey() != (MonthKey{Year: 2024, Month: time.February}) {
		t.Fatalf("unexpected month key %v", d.MonthKey())
	}
	for _, bad := range []string{"", "2023-02-29", "2024/01/01", "01-01-2024"} {
		if _, err := ParseDate(bad); err != ErrInvalidDate {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:     1,
		Category:   "Food",
		Amount:     decimal.NewFromInt(10),
		Kind:       Expense,
		OccurredOn: NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.UserID = 0 }, ErrMissingField},
		{func(tx *Transaction) { tx.Category = " " }, ErrMissingField},
		{func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{func(tx *Transaction) { tx.OccurredOn = Date{} }, ErrInvalidDate},
	}
	for i, tc := range bads {
		tx := good
		tc.mutate(&tx)
		if err := tx.Validate(); err != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestGoalValidateAndActive(t *testing.T) {
	g := Goal{UserID: 1, Name: "Bike", Target: decimal.NewFromInt(300), Date: NewDate(2025, 6, 1), Status: GoalInProgress}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !g.Active() {
		t.Fatalf("in-progress goal should be active")
	}
	g.Saved = decimal.NewFromInt(-1)
	if err := g.Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	g.Status = GoalCompleted
	if g.Active() {
		t.Fatalf("completed goal should not be active")
	}
}

func TestLedgerSummarySaving(t *testing.T) {
	s := LedgerSummary{Income: decimal.NewFromInt(100), Expense: decimal.NewFromInt(130)}
	if !s.Saving().Equal(decimal.NewFromInt(-30)) {
		t.Fatalf("expected -30, got %s", s.Saving())
	}
}
