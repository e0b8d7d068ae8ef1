package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func TestEvaluateStatus(t *testing.T) {
	month := core.MonthKey{Year: 2024, Month: time.March}
	d := decimal.RequireFromString

	tests := []struct {
		name      string
		budget    string
		budgetSet bool
		spent     string
		remaining string
		band      Band
		note      string
	}{
		{"no budget stored", "0", false, "25", "-25.00", BandNoBudget, NoteNoBudget},
		{"zero budget stored", "0", true, "0", "0.00", BandNoBudget, NoteNoBudget},
		{"over budget", "500", true, "500.01", "-0.01", BandOver, NoteOverBudget},
		{"exactly spent", "500", true, "500", "0.00", BandCritical, NoteEdge},
		{"healthy at 40 percent", "500", true, "300", "200.00", BandHealthy, NoteHealthy},
		{"just under 40 percent", "500", true, "300.01", "199.99", BandCaution, NoteEdge},
		{"at 10 percent", "500", true, "450", "50.00", BandCaution, NoteEdge},
		{"under 10 percent", "500", true, "460", "40.00", BandCritical, NoteEdge},
		{"nothing spent", "120.50", true, "0", "120.50", BandHealthy, NoteHealthy},
		{"rounds once at the end", "10.005", true, "0.001", "10.00", BandHealthy, NoteHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateStatus(month, d(tt.budget), tt.budgetSet, d(tt.spent), 12)
			assert.Equal(t, tt.remaining, got.Remaining.StringFixed(2))
			assert.Equal(t, tt.band, got.Band)
			assert.Equal(t, tt.note, got.Note)
			assert.Equal(t, 12, got.RemainingDays)
			assert.Equal(t, month, got.Month)
		})
	}
}

func TestEvaluateStatusClampsRemainingDays(t *testing.T) {
	got := EvaluateStatus(core.MonthKey{Year: 2024, Month: time.May}, decimal.NewFromInt(10), true, decimal.Zero, -3)
	assert.Equal(t, 0, got.RemainingDays)
}

func TestOverBudgetIffNegativeRemaining(t *testing.T) {
	month := core.MonthKey{Year: 2024, Month: time.June}
	budget := decimal.NewFromInt(100)
	for cents := int64(0); cents <= 20000; cents += 37 {
		spent := core.FromCents(cents)
		got := EvaluateStatus(month, budget, true, spent, 1)
		assert.Equal(t, got.Remaining.IsNegative(), got.Note == NoteOverBudget, "spent %s", spent)
	}
}

func TestBandAlerting(t *testing.T) {
	assert.False(t, BandNoBudget.Alerting())
	assert.False(t, BandHealthy.Alerting())
	assert.True(t, BandCaution.Alerting())
	assert.True(t, BandCritical.Alerting())
	assert.True(t, BandOver.Alerting())
	assert.Equal(t, BandCaution.Note(), BandCritical.Note())
}
