package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/store"
)

// ProductService exposes read-only catalog operations.
type ProductService interface {
	// ListProducts returns all products in the catalog.
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	// GetProduct retrieves a single product.
	// Returns store.ErrProductNotFound if it does not exist.
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// productServiceImpl implements ProductService.
type productServiceImpl struct {
	products store.ProductStore
	logger   *slog.Logger
}

// NewProductService creates a ProductService with the given dependencies.
func NewProductService(products store.ProductStore, logger *slog.Logger) ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &productServiceImpl{
		products: products,
		logger:   logger.With(slog.String("component", "product_service")),
	}
}

// ListProducts implements ProductService.ListProducts.
func (s *productServiceImpl) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct implements ProductService.GetProduct.
func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get product", "error", err, "product_id", id)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
