package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// DefaultStoreTimeout bounds every store call made while serving a request.
const DefaultStoreTimeout = 5 * time.Second

// Report is the current month's status plus the tracked months before it.
type Report struct {
	Current  BudgetStatus
	Previous []HistoryEntry
}

// Service answers budget analytics queries for a single user at a time.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	store        LedgerStore
	clock        core.Clock
	storeTimeout time.Duration
	logger       *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(c core.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithStoreTimeout overrides DefaultStoreTimeout.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithLogger sets the logger used for analytics events.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l.WithComponent(log.ComponentAnalytics) }
}

func NewService(store LedgerStore, opts ...Option) *Service {
	s := &Service{
		store:        store,
		clock:        core.SystemClock,
		storeTimeout: DefaultStoreTimeout,
		logger:       log.New(log.DefaultConfig()).WithComponent(log.ComponentAnalytics),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBudgetStatus evaluates the current month and composes the history of
// the three months before it.
func (s *Service) GetBudgetStatus(ctx context.Context, userID int64) (Report, error) {
	if userID <= 0 {
		return Report{}, core.ErrMissingField
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	now := s.clock.Now()
	month := core.CurrentMonthKey(now)

	var (
		budget    decimal.Decimal
		budgetSet bool
		totals    map[core.MonthKey]decimal.Decimal
		previous  []HistoryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budget, budgetSet, err = s.store.FetchBudget(gctx, userID, month)
		if err != nil {
			return storeError("fetch budget", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totals, err = s.store.FetchExpenseTotals(gctx, userID, []core.MonthKey{month})
		if err != nil {
			return storeError("fetch expense totals", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		previous, err = s.composeHistory(gctx, userID, now)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Budget status failed", log.FieldUserID, userID, log.FieldError, err)
		return Report{}, err
	}

	status := EvaluateStatus(month, budget, budgetSet, totals[month], core.RemainingDaysInMonth(now))
	s.logger.DebugContext(ctx, "Budget status evaluated",
		log.FieldUserID, userID,
		log.FieldMonth, month.String(),
		log.FieldBudget, status.BudgetAmount.String(),
		log.FieldSpent, status.Spent.String(),
		"history_months", len(previous))

	return Report{Current: status, Previous: previous}, nil
}

// CurrentStatus evaluates only the current month, without history.
func (s *Service) CurrentStatus(ctx context.Context, userID int64) (BudgetStatus, error) {
	if userID <= 0 {
		return BudgetStatus{}, core.ErrMissingField
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	now := s.clock.Now()
	month := core.CurrentMonthKey(now)

	budget, budgetSet, err := s.store.FetchBudget(ctx, userID, month)
	if err != nil {
		return BudgetStatus{}, storeError("fetch budget", err)
	}
	totals, err := s.store.FetchExpenseTotals(ctx, userID, []core.MonthKey{month})
	if err != nil {
		return BudgetStatus{}, storeError("fetch expense totals", err)
	}
	return EvaluateStatus(month, budget, budgetSet, totals[month], core.RemainingDaysInMonth(now)), nil
}

// SetBudget stores amount as the budget of the current month, replacing any
// existing one. Invalid amounts are rejected before the store is touched.
func (s *Service) SetBudget(ctx context.Context, userID int64, amount string) error {
	if userID <= 0 || strings.TrimSpace(amount) == "" {
		return core.ErrMissingField
	}
	value, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	month := core.CurrentMonthKey(s.clock.Now())
	if err := s.store.UpsertBudget(ctx, userID, month, value); err != nil {
		s.logger.ErrorContext(ctx, "Budget upsert failed", log.FieldUserID, userID, log.FieldMonth, month.String(), log.FieldError, err)
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("upsert budget: %w", err)
		}
		return storeError("upsert budget", err)
	}

	s.logger.InfoContext(ctx, "Budget set",
		log.FieldUserID, userID,
		log.FieldMonth, month.String(),
		log.FieldBudget, value.String(),
		log.FieldOperation, log.OpUpsert)
	return nil
}

// GetForecast builds the expense forecast from the trailing window.
func (s *Service) GetForecast(ctx context.Context, userID int64) (ForecastSeries, error) {
	if userID <= 0 {
		return ForecastSeries{}, core.ErrMissingField
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	history, err := s.store.RecentExpenseTotals(ctx, userID, ForecastWindow)
	if err != nil {
		s.logger.ErrorContext(ctx, "Forecast history fetch failed", log.FieldUserID, userID, log.FieldError, err)
		return ForecastSeries{}, storeError("fetch recent expense totals", err)
	}

	series := Forecast(history)
	s.logger.DebugContext(ctx, "Forecast computed",
		log.FieldUserID, userID,
		"months", len(series.Labels),
		"next_prediction", series.NextPrediction)
	return series, nil
}

// storeError marks err as a store failure while keeping the cause matchable.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStoreUnavailable, err)
}
