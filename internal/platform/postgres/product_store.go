package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/platform/logger"
	"github.com/storely/storely-api/internal/store"
)

// ProductStore implements store.ProductStore using PostgreSQL.
type ProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProductStore creates a PostgreSQL implementation of store.ProductStore.
func NewProductStore(db store.DBTX, log *slog.Logger) *ProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProductStore{
		db:     db,
		logger: log.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*ProductStore)(nil)

// GetByID implements store.ProductStore.GetByID.
func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, price, category, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Category,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to query product", "error", err, "product_id", id)
		return nil, err
	}

	return &product, nil
}

// List implements store.ProductStore.List.
func (s *ProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, price, category, stock, created_at, updated_at
		FROM products
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list products", "error", err)
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", "error", err)
		}
	}()

	var products []*domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Category,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			log.Error("failed to scan product row", "error", err)
			return nil, err
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		log.Error("product row iteration failed", "error", err)
		return nil, err
	}

	return products, nil
}
