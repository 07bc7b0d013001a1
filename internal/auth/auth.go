// Package auth owns the account lifecycle and is the session provider the
// stores consume: it resolves who the current user is and whether that
// answer is still being worked out.
package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salman-113/storefront/internal/domain"
	apperrors "github.com/salman-113/storefront/pkg/errors"
	"github.com/salman-113/storefront/pkg/validator"
)

// UserClient is the slice of the record client the auth service needs.
type UserClient interface {
	GetUser(ctx context.Context, userID string) (*domain.UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	FindUserByCredentials(ctx context.Context, email, password string) (*domain.UserRecord, error)
	CreateUser(ctx context.Context, user *domain.UserRecord) error
}

// SignupInput is the payload for account creation.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service manages the authenticated session. It satisfies session.Provider:
// stores observe the current user through CurrentUser and IsLoading and never
// touch credentials.
type Service struct {
	client UserClient
	logger *slog.Logger

	mu      sync.RWMutex
	user    *domain.UserRecord
	loading bool
}

// NewService creates an auth service with no active session.
func NewService(client UserClient, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// CurrentUser returns the authenticated user's id, or ok=false when nobody
// is logged in.
func (s *Service) CurrentUser() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return "", false
	}
	return s.user.ID, true
}

// IsLoading reports whether the session is still being resolved. Stores
// treat a loading session as not-yet-authenticated rather than anonymous.
func (s *Service) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// User returns a copy of the authenticated user record, or nil.
func (s *Service) User() *domain.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Signup creates a new account and logs it in. Emails are unique across the
// record store; the new account starts with empty cart, wishlist and orders.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*domain.UserRecord, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	existing, err := s.client.FindUserByEmail(ctx, input.Email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.AlreadyPresent("an account with this email already exists")
	}

	user := &domain.UserRecord{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		Role:      domain.RoleUser,
		Cart:      domain.Collection{},
		Wishlist:  domain.Collection{},
		Orders:    []domain.Order{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.client.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.setUser(user)
	s.logger.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID))
	return s.User(), nil
}

// Login authenticates by email and password. Blocked accounts authenticate
// but are refused a session.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.UserRecord, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.FindUserByCredentials(ctx, input.Email, input.Password)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotAuthenticated("invalid email or password")
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, apperrors.Blocked("this account has been blocked")
	}

	s.setUser(user)
	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return s.User(), nil
}

// Restore re-resolves a previously persisted session by user id, e.g. after
// a restart. A missing or blocked user clears the session.
func (s *Service) Restore(ctx context.Context, userID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.GetUser(ctx, userID)
	if err != nil {
		s.setUser(nil)
		return err
	}
	if user.IsBlocked {
		s.setUser(nil)
		return apperrors.Blocked("this account has been blocked")
	}
	s.setUser(user)
	return nil
}

// Logout drops the session. Local store state is the caller's to clear.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

func (s *Service) setUser(u *domain.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
