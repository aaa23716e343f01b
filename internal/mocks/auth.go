package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	Token     string
	ExpiresAt time.Time
	Err       error

	// Claims returned by ValidateToken when ValidateErr is nil.
	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService.GenerateToken.
func (m *MockJWTService) GenerateToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, time.Time, error) {
	if m.Err != nil {
		return "", time.Time{}, m.Err
	}
	expiresAt := m.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}
	return m.Token, expiresAt, nil
}

// ValidateToken implements auth.JWTService.ValidateToken.
func (m *MockJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	if m.Claims == nil {
		return nil, auth.ErrInvalidToken
	}
	return m.Claims, nil
}

// MockPasswordHasher implements auth.PasswordHasher and
// auth.PasswordVerifier for testing without bcrypt's cost.
type MockPasswordHasher struct {
	HashErr error

	// FailCompare makes every Compare call report a mismatch.
	FailCompare bool
}

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

// Hash implements auth.PasswordHasher.Hash with a reversible marker.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier.Compare against Hash's output.
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if m.FailCompare || hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
