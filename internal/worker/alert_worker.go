package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// StatusEvaluator reports the current month's budget status of a user.
type StatusEvaluator interface {
	CurrentStatus(ctx context.Context, userID int64) (analytics.BudgetStatus, error)
}

// AlertWorker re-evaluates a user's budget after each new expense and emits
// an alert when the remaining budget is low or exhausted.
type AlertWorker struct {
	status StatusEvaluator
	logger *log.Logger
	alerts *log.StructuredLogger
	sent   atomic.Int64
}

func NewAlertWorker(status StatusEvaluator, logger *log.Logger) *AlertWorker {
	logger = logger.WithComponent(log.ComponentWorker)
	return &AlertWorker{
		status: status,
		logger: logger,
		alerts: log.NewStructuredLogger(logger),
	}
}

// HandleTransactionEvent processes a single transaction event. Returning an
// error asks the transport to redeliver the event.
func (w *AlertWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	if !event.IsExpense() {
		w.logger.DebugContext(ctx, "Skipping non-expense event", log.FieldEventID, event.EventID)
		return nil
	}

	status, err := w.status.CurrentStatus(ctx, event.UserID)
	if errors.Is(err, core.ErrMissingField) {
		w.logger.WarnContext(ctx, "Dropping event without user", log.FieldEventID, event.EventID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("evaluate budget for user %d: %w", event.UserID, err)
	}

	// Expenses dated in another month do not move the current status.
	if occurred, err := core.ParseDate(event.OccurredOn); err == nil && occurred.MonthKey() != status.Month {
		w.logger.DebugContext(ctx, "Skipping event outside current month",
			log.FieldEventID, event.EventID,
			log.FieldMonth, occurred.MonthKey().String())
		return nil
	}

	if !status.Band.Alerting() {
		return nil
	}

	w.alerts.LogBudgetAlert(ctx, event.UserID,
		status.Month.String(),
		status.BudgetAmount.StringFixed(2),
		status.Spent.StringFixed(2),
		status.Remaining.StringFixed(2),
		status.Note)
	w.sent.Add(1)
	return nil
}

// AlertsSent returns how many alerts were emitted since start.
func (w *AlertWorker) AlertsSent() int64 {
	return w.sent.Load()
}
