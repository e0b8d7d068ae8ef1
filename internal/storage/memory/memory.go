// Package memory is an in-process store used for local development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type budgetKey struct {
	userID int64
	month  core.MonthKey
}

type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	nextID  int64
	users   map[int64]core.User
	emails  map[string]int64
	budgets map[budgetKey]core.BudgetRecord
	txs     []core.Transaction
	goals   []core.Goal
}

func New() *Store {
	return &Store{
		now:     time.Now,
		users:   map[int64]core.User{},
		emails:  map[string]int64{},
		budgets: map[budgetKey]core.BudgetRecord{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emails[u.Email]; ok {
		return core.User{}, core.ErrAlreadyExists
	}
	u.ID = s.id()
	u.CreatedAt = s.now().UTC()
	s.users[u.ID] = u
	s.emails[u.Email] = u.ID
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *Store) FetchExpenseTotals(_ context.Context, userID int64, months []core.MonthKey) (map[core.MonthKey]decimal.Decimal, error) {
	wanted := make(map[core.MonthKey]struct{}, len(months))
	for _, m := range months {
		wanted[m] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[core.MonthKey]decimal.Decimal{}
	for _, t := range s.txs {
		if t.UserID != userID || t.Kind != core.Expense {
			continue
		}
		m := t.OccurredOn.MonthKey()
		if _, ok := wanted[m]; !ok {
			continue
		}
		out[m] = out[m].Add(t.Amount)
	}
	return out, nil
}

func (s *Store) FetchBudgets(_ context.Context, userID int64, months []core.MonthKey) (map[core.MonthKey]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[core.MonthKey]decimal.Decimal{}
	for _, m := range months {
		if b, ok := s.budgets[budgetKey{userID, m}]; ok {
			out[m] = b.Amount
		}
	}
	return out, nil
}

func (s *Store) FetchBudget(_ context.Context, userID int64, month core.MonthKey) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[budgetKey{userID, month}]
	if !ok {
		return decimal.Zero, false, nil
	}
	return b.Amount, true, nil
}

// UpsertBudget replaces the record for (userID, month) under the store lock.
func (s *Store) UpsertBudget(_ context.Context, userID int64, month core.MonthKey, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return core.ErrNotFound
	}
	s.budgets[budgetKey{userID, month}] = core.BudgetRecord{
		UserID:      userID,
		Month:       month,
		Amount:      amount,
		LastUpdated: s.now().UTC(),
	}
	return nil
}

func (s *Store) RecentExpenseTotals(_ context.Context, userID int64, limit int) ([]core.MonthlySpend, error) {
	if limit <= 0 {
		return []core.MonthlySpend{}, nil
	}

	s.mu.Lock()
	totals := map[core.MonthKey]decimal.Decimal{}
	for _, t := range s.txs {
		if t.UserID == userID && t.Kind == core.Expense {
			m := t.OccurredOn.MonthKey()
			totals[m] = totals[m].Add(t.Amount)
		}
	}
	s.mu.Unlock()

	out := make([]core.MonthlySpend, 0, len(totals))
	for m, total := range totals {
		out = append(out, core.MonthlySpend{Month: m, Total: total})
	}
	slices.SortFunc(out, func(a, b core.MonthlySpend) int {
		return cmp.Compare(a.Month.Year*12+int(a.Month.Month), b.Month.Year*12+int(b.Month.Month))
	})
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	t.ID = s.id()
	t.CreatedAt = s.now().UTC()
	s.txs = append(s.txs, t)
	return t, nil
}

// ListTransactions returns the user's transactions, most recent date first.
func (s *Store) ListTransactions(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	out := make([]core.Transaction, 0)
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		if c := b.OccurredOn.Compare(a.OccurredOn.Time); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[g.UserID]; !ok {
		return core.Goal{}, core.ErrNotFound
	}
	g.ID = s.id()
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) ListGoals(_ context.Context, userID int64) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, 0)
	for i := len(s.goals) - 1; i >= 0; i-- {
		if s.goals[i].UserID == userID {
			out = append(out, s.goals[i])
		}
	}
	return out, nil
}

func (s *Store) LedgerSummary(_ context.Context, userID int64) (core.LedgerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum core.LedgerSummary
	for _, t := range s.txs {
		if t.UserID != userID {
			continue
		}
		switch t.Kind {
		case core.Income:
			sum.Income = sum.Income.Add(t.Amount)
		case core.Expense:
			sum.Expense = sum.Expense.Add(t.Amount)
		}
	}
	for _, g := range s.goals {
		if g.UserID == userID && g.Active() {
			sum.ActiveGoals++
		}
	}
	return sum, nil
}
