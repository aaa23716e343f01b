package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
)

// CartStore defines the interface for cart line persistence.
//
// UpdateQuantityIf is the concurrency primitive the cart service builds
// on: a conditional update keyed on the quantity the caller previously
// observed. Together with the unique (user, product) constraint enforced
// on Create, it lets the service retry merges instead of taking locks.
type CartStore interface {
	// FindByUserAndProduct retrieves the cart item for a (user, product)
	// pair. Returns ErrCartItemNotFound if no such item exists.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error)

	// GetByID retrieves a cart item by its unique ID.
	// Returns ErrCartItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error)

	// ListByUser returns all cart items belonging to the user. Order is
	// not guaranteed to be stable across calls.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)

	// Create saves a new cart item. Returns ErrCartItemExists if an item
	// for the same (user, product) pair already exists.
	Create(ctx context.Context, item *domain.CartItem) error

	// UpdateQuantity sets the item's quantity unconditionally.
	// Returns ErrCartItemNotFound if the item does not exist.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error

	// UpdateQuantityIf sets the item's quantity only if the stored
	// quantity still equals observed. Returns ErrConcurrentModification
	// if the item changed since it was read, ErrCartItemNotFound if it
	// no longer exists.
	UpdateQuantityIf(ctx context.Context, id uuid.UUID, quantity, observed int) error

	// Delete removes a cart item. Returns ErrCartItemNotFound if the item
	// does not exist; callers that want idempotent semantics ignore it.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes all cart items belonging to the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
