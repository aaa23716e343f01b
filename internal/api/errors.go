package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/storely/storely-api/internal/api/shared"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/service"
	"github.com/storely/storely-api/internal/service/auth"
	"github.com/storely/storely-api/internal/store"
)

// MapErrorToStatusCode maps core errors to HTTP status codes so internal
// error types never dictate the wire format ad hoc.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Authentication failures
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Ownership failures
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Missing entities
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Duplicates and lost races
	case store.IsDuplicateError(err),
		errors.Is(err, service.ErrConflictRetriesExceeded):
		return http.StatusConflict

	// Validation and business-rule failures
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, service.ErrInsufficientStock):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for a core
// error. Internal details never reach clients.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "You do not own this cart item"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, store.ErrCartItemNotFound):
		return "Cart item not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrConflictRetriesExceeded):
		return "Cart is being modified concurrently, please retry"

	case errors.Is(err, service.ErrInsufficientStock):
		// The wrapped message carries the requested/available numbers and
		// is safe to show.
		return capitalize(err.Error())

	case errors.As(err, &validationErr):
		return capitalize(validationErr.Error())

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuantity):
		return capitalize(err.Error())

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError writes the mapped status code and sanitized message
// for a core error.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
