package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
)

// ProductStore defines the read-only interface for the product catalog.
// Nothing in this service mutates products; stock is adjusted by the
// (out of scope) fulfillment flow.
type ProductStore interface {
	// GetByID retrieves a product by its unique ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// List returns all products in the catalog.
	List(ctx context.Context) ([]*domain.Product, error)
}
