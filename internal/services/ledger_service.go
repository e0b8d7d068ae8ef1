package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// TransactionInput is a transaction as submitted by a client.
type TransactionInput struct {
	UserID   int64
	Category string
	Amount   string
	Kind     string
	Date     string
}

// GoalInput is a savings goal as submitted by a client. Saved may be empty.
type GoalInput struct {
	UserID int64
	Name   string
	Target string
	Saved  string
	Date   string
}

// LedgerService records transactions and goals and publishes ledger events.
type LedgerService struct {
	store     LedgerRepository
	publisher EventPublisher
}

// NewLedgerService wires the store and an optional publisher.
func NewLedgerService(store LedgerRepository, publisher EventPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// CreateTransaction validates and stores a transaction, then publishes it.
// A failed publish is logged but does not fail the request.
func (s *LedgerService) CreateTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	if in.UserID <= 0 || blank(in.Category, in.Amount, in.Kind, in.Date) {
		return core.Transaction{}, core.ErrMissingField
	}
	amount, err := core.ParsePositiveAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		UserID:     in.UserID,
		Category:   strings.TrimSpace(in.Category),
		Amount:     amount,
		Kind:       core.TransactionKind(strings.ToLower(strings.TrimSpace(in.Kind))),
		OccurredOn: date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, storeError("save transaction", err)
	}
	log.NewStructuredLogger(log.FromContext(ctx)).LogTransactionCreated(ctx,
		saved.UserID, saved.ID, string(saved.Kind), saved.Category, saved.Amount.StringFixed(2))

	if err := s.publish(ctx, saved); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", saved.ID, "error", err)
	}
	return saved, nil
}

func (s *LedgerService) publish(ctx context.Context, t core.Transaction) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping transaction event")
		return nil
	}
	return s.publisher.PublishTransactionCreated(ctx, t)
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	if userID <= 0 {
		return nil, core.ErrMissingField
	}
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, storeError("list transactions", err)
	}
	return txs, nil
}

// CreateGoal stores a goal in progress. Saved defaults to zero.
func (s *LedgerService) CreateGoal(ctx context.Context, in GoalInput) (core.Goal, error) {
	if in.UserID <= 0 || blank(in.Name, in.Target, in.Date) {
		return core.Goal{}, core.ErrMissingField
	}
	target, err := core.ParsePositiveAmount(in.Target)
	if err != nil {
		return core.Goal{}, err
	}
	saved := decimal.Zero
	if strings.TrimSpace(in.Saved) != "" {
		if saved, err = core.ParseAmount(in.Saved); err != nil {
			return core.Goal{}, err
		}
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Goal{}, err
	}

	g := core.Goal{
		UserID: in.UserID,
		Name:   strings.TrimSpace(in.Name),
		Target: target,
		Saved:  saved,
		Date:   date,
		Status: core.GoalInProgress,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, storeError("save goal", err)
	}
	slog.InfoContext(ctx, "Goal created", "goal_id", created.ID, "user_id", created.UserID)
	return created, nil
}

func (s *LedgerService) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	if userID <= 0 {
		return nil, core.ErrMissingField
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, storeError("list goals", err)
	}
	return goals, nil
}

// Dashboard summarizes income, expenses and active goals.
func (s *LedgerService) Dashboard(ctx context.Context, userID int64) (core.LedgerSummary, error) {
	if userID <= 0 {
		return core.LedgerSummary{}, core.ErrMissingField
	}
	sum, err := s.store.LedgerSummary(ctx, userID)
	if err != nil {
		return core.LedgerSummary{}, storeError("ledger summary", err)
	}
	return sum, nil
}

// Close releases the publisher when it holds a connection.
func (s *LedgerService) Close() error {
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}

// storeError keeps NotFound visible and marks anything else as a store failure.
func storeError(op string, err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, core.ErrStoreUnavailable, err)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
