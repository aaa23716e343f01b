package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/service"
	"github.com/storely/storely-api/internal/service/auth"
	"github.com/storely/storely-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"ownership", domain.ErrUnauthorized, http.StatusForbidden},
		{"product not found", store.ErrProductNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("%w: abc", store.ErrCartItemNotFound), http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusConflict},
		{"conflict retries", service.ErrConflictRetriesExceeded, http.StatusConflict},
		{"insufficient stock", service.ErrInsufficientStock, http.StatusBadRequest},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("email", "is required", domain.ErrValidation), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	// Internal details never leak into responses.
	internal := errors.New("pq: connection refused on 10.0.0.5")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))

	assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(service.ErrInvalidCredentials))
	assert.Equal(t, "Email already exists",
		GetSafeErrorMessage(fmt.Errorf("%w: ada@example.com", store.ErrEmailExists)))
	assert.Equal(t, "Product not found", GetSafeErrorMessage(store.ErrProductNotFound))
}
