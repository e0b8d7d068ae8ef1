package analytics

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

var (
	feb2024 = core.MonthKey{Year: 2024, Month: time.February}
	jan2024 = core.MonthKey{Year: 2024, Month: time.January}
	dec2023 = core.MonthKey{Year: 2023, Month: time.December}
	nov2023 = core.MonthKey{Year: 2023, Month: time.November}

	historyKeys = []core.MonthKey{jan2024, dec2023, nov2023}
)

// amountEq matches decimals by value, ignoring scale.
type amountEq struct{ want decimal.Decimal }

func (m amountEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m amountEq) String() string { return "amount equal to " + m.want.String() }

func fixedClock(t time.Time) core.Clock {
	return core.ClockFunc(func() time.Time { return t })
}

func newTestService(t *testing.T, store LedgerStore) *Service {
	t.Helper()
	logger := log.New(log.Config{Level: log.ParseLevel("debug"), Output: &bytes.Buffer{}})
	return NewService(store,
		WithClock(fixedClock(time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC))),
		WithStoreTimeout(time.Second),
		WithLogger(logger))
}

func TestGetBudgetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)
	ctx := context.Background()

	store.EXPECT().FetchBudget(gomock.Any(), int64(7), feb2024).Return(decimal.NewFromInt(500), true, nil)
	store.EXPECT().FetchExpenseTotals(gomock.Any(), int64(7), []core.MonthKey{feb2024}).
		Return(map[core.MonthKey]decimal.Decimal{feb2024: decimal.RequireFromString("320.40")}, nil)
	store.EXPECT().FetchBudgets(gomock.Any(), int64(7), historyKeys).
		Return(map[core.MonthKey]decimal.Decimal{jan2024: decimal.Zero, nov2023: decimal.NewFromInt(300)}, nil)
	store.EXPECT().FetchExpenseTotals(gomock.Any(), int64(7), historyKeys).
		Return(map[core.MonthKey]decimal.Decimal{
			dec2023: decimal.RequireFromString("150.25"),
			nov2023: decimal.NewFromInt(280),
		}, nil)

	report, err := svc.GetBudgetStatus(ctx, 7)
	require.NoError(t, err)

	cur := report.Current
	assert.Equal(t, feb2024, cur.Month)
	assert.Equal(t, "500.00", cur.BudgetAmount.StringFixed(2))
	assert.Equal(t, "320.40", cur.Spent.StringFixed(2))
	assert.Equal(t, "179.60", cur.Remaining.StringFixed(2))
	assert.Equal(t, 14, cur.RemainingDays)
	assert.Equal(t, NoteEdge, cur.Note)

	require.Len(t, report.Previous, 3)
	assert.Equal(t, jan2024, report.Previous[0].Month)
	assert.True(t, report.Previous[0].BudgetAmount.IsZero())
	assert.True(t, report.Previous[0].Spent.IsZero())
	// Spend without a budget record is still tracked, at a zero budget.
	assert.Equal(t, dec2023, report.Previous[1].Month)
	assert.True(t, report.Previous[1].BudgetAmount.IsZero())
	assert.Equal(t, "150.25", report.Previous[1].Spent.StringFixed(2))
	assert.Equal(t, nov2023, report.Previous[2].Month)
	assert.Equal(t, "300.00", report.Previous[2].BudgetAmount.StringFixed(2))
	assert.Equal(t, "280.00", report.Previous[2].Spent.StringFixed(2))
}

func TestGetBudgetStatusWithoutBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)

	store.EXPECT().FetchBudget(gomock.Any(), int64(1), feb2024).Return(decimal.Zero, false, nil)
	store.EXPECT().FetchExpenseTotals(gomock.Any(), int64(1), []core.MonthKey{feb2024}).Return(map[core.MonthKey]decimal.Decimal{}, nil)
	store.EXPECT().FetchBudgets(gomock.Any(), int64(1), historyKeys).Return(map[core.MonthKey]decimal.Decimal{}, nil)
	store.EXPECT().FetchExpenseTotals(gomock.Any(), int64(1), historyKeys).
		Return(map[core.MonthKey]decimal.Decimal{dec2023: decimal.Zero}, nil)

	report, err := svc.GetBudgetStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, NoteNoBudget, report.Current.Note)
	assert.True(t, report.Current.Remaining.IsZero())
	assert.NotNil(t, report.Previous)
	assert.Empty(t, report.Previous)
}

func TestGetBudgetStatusStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)
	boom := errors.New("database is locked")

	store.EXPECT().FetchBudget(gomock.Any(), gomock.Any(), gomock.Any()).Return(decimal.Zero, false, boom)
	store.EXPECT().FetchExpenseTotals(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().FetchBudgets(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.GetBudgetStatus(context.Background(), 3)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestGetBudgetStatusRequiresUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := newTestService(t, NewMockLedgerStore(ctrl))

	_, err := svc.GetBudgetStatus(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrMissingField)
}

func TestCurrentStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)

	store.EXPECT().FetchBudget(gomock.Any(), int64(2), feb2024).Return(decimal.NewFromInt(100), true, nil)
	store.EXPECT().FetchExpenseTotals(gomock.Any(), int64(2), []core.MonthKey{feb2024}).
		Return(map[core.MonthKey]decimal.Decimal{feb2024: decimal.NewFromInt(130)}, nil)

	status, err := svc.CurrentStatus(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, BandOver, status.Band)
	assert.Equal(t, "-30.00", status.Remaining.StringFixed(2))
}

func TestSetBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)
	ctx := context.Background()

	store.EXPECT().UpsertBudget(gomock.Any(), int64(5), feb2024, amountEq{decimal.NewFromInt(500)}).Return(nil).Times(2)

	require.NoError(t, svc.SetBudget(ctx, 5, "500"))
	require.NoError(t, svc.SetBudget(ctx, 5, " 500.00 "))
}

func TestSetBudgetRejectsInvalidInputWithoutStoreCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: any store call fails the test.
	svc := newTestService(t, NewMockLedgerStore(ctrl))
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		amount string
		want   error
	}{
		{"non numeric", 5, "abc", core.ErrInvalidAmount},
		{"negative", 5, "-5", core.ErrInvalidAmount},
		{"empty", 5, "  ", core.ErrMissingField},
		{"missing user", 0, "10", core.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.SetBudget(ctx, tt.userID, tt.amount), tt.want)
		})
	}
}

func TestSetBudgetStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)
	ctx := context.Background()

	gomock.InOrder(
		store.EXPECT().UpsertBudget(gomock.Any(), int64(5), feb2024, gomock.Any()).Return(errors.New("disk I/O error")),
		store.EXPECT().UpsertBudget(gomock.Any(), int64(6), feb2024, gomock.Any()).Return(core.ErrNotFound),
	)

	err := svc.SetBudget(ctx, 5, "10")
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)

	err = svc.SetBudget(ctx, 6, "10")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NotErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestGetForecast(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)

	store.EXPECT().RecentExpenseTotals(gomock.Any(), int64(9), ForecastWindow).
		Return(spends(core.MonthKey{Year: 2023, Month: time.September}, "100", "120", "110", "130", "140", "150"), nil)

	series, err := svc.GetForecast(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(131), series.NextPrediction)
	assert.Equal(t, []int64{120, 110, 130, 140, 150, 131}, series.Predicted)
}

func TestGetForecastStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockLedgerStore(ctrl)
	svc := newTestService(t, store)

	store.EXPECT().RecentExpenseTotals(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no such table"))

	_, err := svc.GetForecast(context.Background(), 9)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}
