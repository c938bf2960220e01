// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/authbase/authbase/internal/auth"
	"github.com/authbase/authbase/internal/metrics"
	"github.com/authbase/authbase/internal/model"
	"github.com/authbase/authbase/internal/repository"
	"github.com/authbase/authbase/internal/validation"
)

// Service errors.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// defaultListLimit caps the number of users returned by ListUsers.
const defaultListLimit = 50

// UserStore abstracts the credential store so the backend is swappable.
// Implementations signal duplicates and misses with the repository
// sentinel errors.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListRecentUsers(ctx context.Context, limit int) ([]*model.User, error)
}

// AuthService orchestrates registration, login and profile reads.
type AuthService struct {
	store   UserStore
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenManager
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger,
		metrics: recorder,
	}
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	Token string
	User  *model.User
}

// Register creates a new user and issues a token for it.
//
// The pre-insert lookup avoids paying the hashing cost for an email that
// is already taken; the store's unique constraint remains the authority,
// so a racing duplicate insert still surfaces as ErrEmailExists.
func (s *AuthService) Register(ctx context.Context, payload *validation.RegisterPayload) (*AuthResult, error) {
	_, err := s.store.GetUserByEmail(ctx, payload.Email)
	if err == nil {
		s.metrics.IncRegistration(metrics.OutcomeConflict)
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		s.metrics.IncRegistration(metrics.OutcomeError)
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeError)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         payload.Name,
		DateOfBirth:  payload.DateOfBirth,
		Email:        payload.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost the race against a concurrent registration
			s.metrics.IncRegistration(metrics.OutcomeConflict)
			return nil, ErrEmailExists
		}
		s.metrics.IncRegistration(metrics.OutcomeError)
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	s.metrics.IncRegistration(metrics.OutcomeSuccess)

	user.PasswordHash = ""
	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates an existing user and issues a fresh token.
//
// An unknown email and a wrong password both return ErrInvalidCredentials
// so the response gives no signal which field was wrong.
func (s *AuthService) Login(ctx context.Context, payload *validation.LoginPayload) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.OutcomeRejected)
			return nil, ErrInvalidCredentials
		}
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !s.hasher.Compare(payload.Password, user.PasswordHash) {
		s.metrics.IncLogin(metrics.OutcomeRejected)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	s.metrics.IncLogin(metrics.OutcomeSuccess)

	user.PasswordHash = ""
	return &AuthResult{Token: token, User: user}, nil
}

// Profile returns the user record for a verified token's subject.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return user, nil
}

// ListUsers returns up to limit users, newest first.
// A non-positive or oversized limit falls back to the default cap.
func (s *AuthService) ListUsers(ctx context.Context, limit int) ([]*model.User, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	users, err := s.store.ListRecentUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
