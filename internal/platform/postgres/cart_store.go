package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/platform/logger"
	"github.com/storely/storely-api/internal/store"
)

// CartStore implements store.CartStore using PostgreSQL.
//
// The cart_items table carries a unique (user_id, product_id) index, so
// concurrent first-adds surface as store.ErrCartItemExists, and the
// conditional update compares the stored quantity in the WHERE clause,
// so lost races surface as store.ErrConcurrentModification. The service
// layer retries on both.
type CartStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCartStore creates a PostgreSQL implementation of store.CartStore.
func NewCartStore(db store.DBTX, log *slog.Logger) *CartStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CartStore{
		db:     db,
		logger: log.With(slog.String("component", "cart_store")),
	}
}

var _ store.CartStore = (*CartStore)(nil)

const cartItemColumns = "id, user_id, product_id, quantity, created_at, updated_at"

// FindByUserAndProduct implements store.CartStore.FindByUserAndProduct.
func (s *CartStore) FindByUserAndProduct(
	ctx context.Context,
	userID, productID uuid.UUID,
) (*domain.CartItem, error) {
	query := `
		SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`
	return s.scanItem(ctx, query, userID, productID)
}

// GetByID implements store.CartStore.GetByID.
func (s *CartStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE id = $1
	`
	return s.scanItem(ctx, query, id)
}

// ListByUser implements store.CartStore.ListByUser.
func (s *CartStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list cart items", "error", err, "user_id", userID)
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", "error", err)
		}
	}()

	var items []*domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			log.Error("failed to scan cart item row", "error", err)
			return nil, err
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		log.Error("cart item row iteration failed", "error", err)
		return nil, err
	}

	return items, nil
}

// Create implements store.CartStore.Create.
func (s *CartStore) Create(ctx context.Context, item *domain.CartItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("cart item validation failed during create",
			"error", err,
			"item_id", item.ID)
		return err
	}

	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("cart item already exists for user and product",
				"user_id", item.UserID,
				"product_id", item.ProductID)
			return store.ErrCartItemExists
		}
		log.Error("failed to create cart item", "error", err, "item_id", item.ID)
		return err
	}

	return nil
}

// UpdateQuantity implements store.CartStore.UpdateQuantity.
func (s *CartStore) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, quantity, time.Now().UTC())
	if err != nil {
		log.Error("failed to update cart item quantity", "error", err, "item_id", id)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrCartItemNotFound
	}

	return nil
}

// UpdateQuantityIf implements store.CartStore.UpdateQuantityIf. The
// stored quantity is compared in the WHERE clause, making the update a
// compare-and-swap on the row.
func (s *CartStore) UpdateQuantityIf(
	ctx context.Context,
	id uuid.UUID,
	quantity, observed int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = $3
		WHERE id = $1 AND quantity = $4
	`
	result, err := s.db.ExecContext(ctx, query, id, quantity, time.Now().UTC(), observed)
	if err != nil {
		log.Error("failed to conditionally update cart item",
			"error", err,
			"item_id", id)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// No row matched: either the quantity moved or the item is gone.
	var exists bool
	err = s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM cart_items WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check cart item existence", "error", err, "item_id", id)
		return err
	}
	if !exists {
		return store.ErrCartItemNotFound
	}

	log.Debug("conditional update lost race", "item_id", id, "observed", observed)
	return store.ErrConcurrentModification
}

// Delete implements store.CartStore.Delete.
func (s *CartStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete cart item", "error", err, "item_id", id)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrCartItemNotFound
	}

	return nil
}

// DeleteByUser implements store.CartStore.DeleteByUser.
func (s *CartStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(
		ctx,
		`DELETE FROM cart_items WHERE user_id = $1`,
		userID,
	); err != nil {
		log.Error("failed to clear cart", "error", err, "user_id", userID)
		return err
	}

	return nil
}

func (s *CartStore) scanItem(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var item domain.CartItem
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCartItemNotFound
		}
		log.Error("failed to query cart item", "error", err)
		return nil, err
	}

	return &item, nil
}
