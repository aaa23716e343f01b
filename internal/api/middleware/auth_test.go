package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storely/storely-api/internal/mocks"
	"github.com/storely/storely-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	validClaims := &auth.Claims{
		UserID:    userID,
		Subject:   userID.String(),
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name        string
		authHeader  string
		jwtService  *mocks.MockJWTService
		wantStatus  int
		wantNextRun bool
	}{
		{
			name:        "valid token",
			authHeader:  "Bearer good-token",
			jwtService:  &mocks.MockJWTService{Claims: validClaims},
			wantStatus:  http.StatusOK,
			wantNextRun: true,
		},
		{
			name:       "missing header",
			authHeader: "",
			jwtService: &mocks.MockJWTService{Claims: validClaims},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			jwtService: &mocks.MockJWTService{Claims: validClaims},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer stale-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextRun := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextRun = true

				gotID, ok := GetUserID(r)
				require.True(t, ok)
				assert.Equal(t, userID, gotID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			recorder := httptest.NewRecorder()
			NewAuthMiddleware(tt.jwtService).Authenticate(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantNextRun, nextRun)
		})
	}
}

func TestGetUserIDWithoutAuthentication(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)
}
