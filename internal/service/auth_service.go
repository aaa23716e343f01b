package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/service/auth"
	"github.com/storely/storely-api/internal/store"
)

// LoginResult is the outcome of a successful login: a signed session
// token, its expiry, and the authenticated user (hash never serialized).
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// AuthService provides user registration and authentication.
type AuthService interface {
	// Register creates a new account. Returns store.ErrEmailExists if an
	// account with the same email already exists. The returned user never
	// exposes its password hash in JSON.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// Login authenticates a user. Returns store.ErrUserNotFound if no
	// account matches the email and ErrInvalidCredentials if the password
	// doesn't match. Performs no store writes.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// authServiceImpl implements AuthService.
type authServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	tokens   auth.JWTService
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with the given dependencies.
func NewAuthService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tokens auth.JWTService,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Register implements AuthService.Register.
func (s *authServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	// Pre-check for a friendlier failure; the store's unique constraint
	// still catches concurrent registrations with the same email.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Debug("registration rejected, email taken", "email", email)
		return nil, store.ErrEmailExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		s.logger.Error("failed to check email availability", "error", err, "email", email)
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(name, email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("registration lost race, email taken", "email", email)
			return nil, store.ErrEmailExists
		}
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login implements AuthService.Login.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login failed, unknown email", "email", email)
			return nil, err
		}
		s.logger.Error("failed to look up user", "error", err, "email", email)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login failed, password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
