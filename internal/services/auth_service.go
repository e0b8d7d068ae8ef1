package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
)

// AuthService registers and authenticates users.
type AuthService struct {
	users UserStore
	cost  int
}

// NewAuthService returns an AuthService hashing with cost, or bcrypt's
// default when cost is out of range.
func NewAuthService(users UserStore, cost int) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cost: cost}
}

// Signup creates an account. All fields are required and the email must not
// be registered yet.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (core.User, error) {
	name = strings.TrimSpace(name)
	email = core.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return core.User{}, core.ErrMissingField
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return core.User{}, core.ErrAlreadyExists
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("lookup user: %w: %w", core.ErrStoreUnavailable, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	// The unique email constraint still guards a concurrent signup.
	user, err := s.users.CreateUser(ctx, core.User{Name: name, Email: email, PasswordHash: hash})
	if errors.Is(err, core.ErrAlreadyExists) {
		return core.User{}, core.ErrAlreadyExists
	}
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w: %w", core.ErrStoreUnavailable, err)
	}

	slog.InfoContext(ctx, "User signed up", "user_id", user.ID)
	return user, nil
}

// Login returns the user whose email and password match.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, error) {
	email = core.NormalizeEmail(email)
	if email == "" || password == "" {
		return core.User{}, core.ErrMissingField
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("lookup user: %w: %w", core.ErrStoreUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		slog.WarnContext(ctx, "Login rejected", "user_id", user.ID)
		return core.User{}, core.ErrInvalidCredentials
	}
	return user, nil
}
