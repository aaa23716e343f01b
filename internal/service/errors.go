// Package service implements the business rules for authentication and
// cart management on top of the store interfaces.
package service

import "errors"

// Common service-level errors.
var (
	// ErrInvalidCredentials indicates the password did not match the
	// stored hash during login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientStock indicates a cart mutation would push the line
	// quantity past the product's available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflictRetriesExceeded indicates a cart mutation kept losing
	// conditional-update races and gave up.
	ErrConflictRetriesExceeded = errors.New("too many concurrent cart updates, please retry")
)
