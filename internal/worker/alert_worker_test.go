package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

type fakeStatus struct {
	status analytics.BudgetStatus
	err    error
	calls  int
}

func (f *fakeStatus) CurrentStatus(context.Context, int64) (analytics.BudgetStatus, error) {
	f.calls++
	return f.status, f.err
}

var march = core.MonthKey{Year: 2024, Month: time.March}

func statusFor(budget, spent string) analytics.BudgetStatus {
	return analytics.EvaluateStatus(march, decimal.RequireFromString(budget), true, decimal.RequireFromString(spent), 10)
}

func newWorker(status StatusEvaluator) (*AlertWorker, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewAlertWorker(status, log.New(log.Config{Level: log.ParseLevel("debug"), Output: &buf})), &buf
}

func expenseEvent(date string) *amqp.TransactionEvent {
	return &amqp.TransactionEvent{EventID: "e-1", Type: amqp.EventTransactionCreated, UserID: 3, Kind: "expense", Amount: "10.00", OccurredOn: date}
}

func TestAlertWorkerEmitsAlertWhenOverBudget(t *testing.T) {
	status := &fakeStatus{status: statusFor("100", "120")}
	w, buf := newWorker(status)

	require.NoError(t, w.HandleTransactionEvent(context.Background(), expenseEvent("2024-03-10")))

	assert.Equal(t, int64(1), w.AlertsSent())
	assert.Contains(t, buf.String(), "Budget alert")
	assert.Contains(t, buf.String(), "remaining=-20.00")
}

func TestAlertWorkerQuietWhenHealthy(t *testing.T) {
	w, buf := newWorker(&fakeStatus{status: statusFor("100", "20")})

	require.NoError(t, w.HandleTransactionEvent(context.Background(), expenseEvent("2024-03-10")))

	assert.Zero(t, w.AlertsSent())
	assert.NotContains(t, buf.String(), "Budget alert")
}

func TestAlertWorkerSkips(t *testing.T) {
	tests := []struct {
		name  string
		event *amqp.TransactionEvent
		calls int
	}{
		{"income", &amqp.TransactionEvent{EventID: "e-2", UserID: 3, Kind: "income", OccurredOn: "2024-03-10"}, 0},
		{"other month", expenseEvent("2024-02-28"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := &fakeStatus{status: statusFor("100", "150")}
			w, _ := newWorker(status)

			require.NoError(t, w.HandleTransactionEvent(context.Background(), tt.event))
			assert.Zero(t, w.AlertsSent())
			assert.Equal(t, tt.calls, status.calls)
		})
	}
}

func TestAlertWorkerErrors(t *testing.T) {
	w, _ := newWorker(&fakeStatus{err: core.ErrStoreUnavailable})
	err := w.HandleTransactionEvent(context.Background(), expenseEvent("2024-03-10"))
	assert.True(t, errors.Is(err, core.ErrStoreUnavailable))

	w, _ = newWorker(&fakeStatus{err: core.ErrMissingField})
	assert.NoError(t, w.HandleTransactionEvent(context.Background(), expenseEvent("2024-03-10")))
}
