package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
)

type (
	TransactionKind string

	GoalStatus string

	Date struct {
		time.Time
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash []byte
		CreatedAt    time.Time
	}

	Transaction struct {
		ID         int64
		UserID     int64
		Category   string
		Amount     decimal.Decimal
		Kind       TransactionKind
		OccurredOn Date
		CreatedAt  time.Time
	}

	BudgetRecord struct {
		UserID      int64
		Month       MonthKey
		Amount      decimal.Decimal
		LastUpdated time.Time
	}

	Goal struct {
		ID     int64
		UserID int64
		Name   string
		Target decimal.Decimal
		Saved  decimal.Decimal
		Date   Date
		Status GoalStatus
	}

	// MonthlySpend is the expense total of one month. It is derived on every
	// request and never persisted.
	MonthlySpend struct {
		Month MonthKey
		Total decimal.Decimal
	}
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidKind        = errors.New("invalid transaction type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// MonthKey returns the month the date falls in.
func (d Date) MonthKey() MonthKey {
	return MonthKeyOf(d.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (t Transaction) Validate() error {
	if t.UserID <= 0 {
		return ErrMissingField
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrMissingField
	}
	if len(t.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	return t.OccurredOn.Validate()
}

func (g Goal) Validate() error {
	if g.UserID <= 0 || strings.TrimSpace(g.Name) == "" {
		return ErrMissingField
	}
	if !g.Target.IsPositive() || g.Saved.IsNegative() {
		return ErrInvalidAmount
	}
	return g.Date.Validate()
}

// Active reports whether the goal still counts towards the dashboard.
func (g Goal) Active() bool {
	return g.Status != GoalCompleted
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
