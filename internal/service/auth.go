// Package service contains the business logic layer: validation and rules
// live here, between the HTTP handlers (which only know about requests and
// responses) and the repositories (which only know about storage).
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/auth"
	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
)

// AuthService handles registration, login, and session lookups.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → account records
//   - passwords *auth.PasswordService     → bcrypt hashing/verification
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// Validation here, not in the handler: every caller needs these rules.
// Email is normalized (trimmed, lowercased) so uniqueness is
// case-insensitive; passwords below the policy minimum are rejected before
// any hashing work happens. A claimed email returns apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "email and password are required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// ErrConflict (duplicate email) passes through; anything else is a
		// storage failure worth logging.
		return nil, fmt.Errorf("registering %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Login verifies credentials and returns the account.
//
// ACCOUNT ENUMERATION:
// Unknown email and wrong password both return the same
// apperror.ErrUnauthorized with the same message - the response must not
// reveal whether an email has an account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return user, nil
}

// GetUserByID returns the account for a validated session's user ID.
// Used by /api/auth/me after the middleware validates the cookie.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return user, nil
}
