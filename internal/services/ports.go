package services

import (
	"context"

	"fintrack/internal/core"
)

// UserStore persists accounts. Emails are stored normalized.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
}

// LedgerRepository persists transactions and goals and summarizes them.
type LedgerRepository interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	LedgerSummary(ctx context.Context, userID int64) (core.LedgerSummary, error)
}

// EventPublisher announces ledger changes to interested consumers.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, t core.Transaction) error
}
