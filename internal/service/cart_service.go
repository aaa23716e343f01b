package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/platform/logger"
	"github.com/storely/storely-api/internal/store"
)

// maxConflictRetries bounds how many times a cart mutation re-runs its
// read/check/update sequence after losing a conditional-update race.
const maxConflictRetries = 5

// CartEntry is one cart line joined with its catalog product.
type CartEntry struct {
	Item    *domain.CartItem `json:"item"`
	Product *domain.Product  `json:"product"`
}

// CartService composes the cart store and the product catalog to manage
// a user's cart with stock enforcement.
//
// Mutations never leave partial state: the stock check and the store
// write for a given line are retried as one unit. Concurrent adds for the
// same (user, product) are serialized through the store's conditional
// quantity update and the unique (user, product) constraint, so committed
// quantities never exceed the product's stock.
type CartService interface {
	// GetCart returns the user's cart lines joined with product data.
	// Entries are unordered.
	GetCart(ctx context.Context, userID uuid.UUID) ([]CartEntry, error)

	// AddToCart adds quantity of a product to the user's cart, merging
	// with an existing line for the same product. Returns the resulting
	// item with its effective post-merge quantity.
	// Fails with store.ErrProductNotFound for unknown products and
	// ErrInsufficientStock when the merged quantity would exceed stock.
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)

	// UpdateQuantity sets a cart line's quantity directly, re-validating
	// against the product's current stock. The item must belong to the
	// calling user.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	// RemoveFromCart deletes a cart line. Removing a non-existent item is
	// not an error.
	RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error

	// ClearCart deletes all of the user's cart lines.
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// cartServiceImpl implements CartService.
type cartServiceImpl struct {
	carts    store.CartStore
	products store.ProductStore
	logger   *slog.Logger
}

// NewCartService creates a CartService with the given dependencies.
func NewCartService(
	carts store.CartStore,
	products store.ProductStore,
	logger *slog.Logger,
) CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartServiceImpl{
		carts:    carts,
		products: products,
		logger:   logger.With(slog.String("component", "cart_service")),
	}
}

// GetCart implements CartService.GetCart.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) ([]CartEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list cart items", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	entries := make([]CartEntry, 0, len(items))
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				// The product was removed from the catalog after the line
				// was added; surface the line without product data rather
				// than failing the whole cart.
				log.Warn("cart item references missing product",
					"item_id", item.ID,
					"product_id", item.ProductID)
				entries = append(entries, CartEntry{Item: item})
				continue
			}
			log.Error("failed to load product for cart item",
				"error", err,
				"item_id", item.ID,
				"product_id", item.ProductID)
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		entries = append(entries, CartEntry{Item: item, Product: product})
	}

	return entries, nil
}

// AddToCart implements CartService.AddToCart.
func (s *cartServiceImpl) AddToCart(
	ctx context.Context,
	userID, productID uuid.UUID,
	quantity int,
) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "must be positive", domain.ErrInvalidQuantity)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			log.Debug("add to cart rejected, unknown product", "product_id", productID)
			return nil, err
		}
		log.Error("failed to load product", "error", err, "product_id", productID)
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		existing, err := s.carts.FindByUserAndProduct(ctx, userID, productID)
		if err != nil && !errors.Is(err, store.ErrCartItemNotFound) {
			log.Error("failed to look up cart item", "error", err,
				"user_id", userID, "product_id", productID)
			return nil, fmt.Errorf("failed to look up cart item: %w", err)
		}

		if existing == nil {
			if quantity > product.Stock {
				log.Debug("add to cart rejected, insufficient stock",
					"product_id", productID,
					"requested", quantity,
					"stock", product.Stock)
				return nil, fmt.Errorf("%w: requested %d, available %d",
					ErrInsufficientStock, quantity, product.Stock)
			}

			item, err := domain.NewCartItem(userID, productID, quantity)
			if err != nil {
				return nil, err
			}

			err = s.carts.Create(ctx, item)
			if errors.Is(err, store.ErrCartItemExists) {
				// Lost a first-add race; merge with the winner's line.
				continue
			}
			if err != nil {
				log.Error("failed to create cart item", "error", err, "item_id", item.ID)
				return nil, fmt.Errorf("failed to create cart item: %w", err)
			}

			log.Info("cart item created",
				"user_id", userID,
				"product_id", productID,
				"quantity", quantity)
			return item, nil
		}

		merged := existing.Quantity + quantity
		if merged > product.Stock {
			log.Debug("cart merge rejected, insufficient stock",
				"product_id", productID,
				"in_cart", existing.Quantity,
				"requested", quantity,
				"stock", product.Stock)
			return nil, fmt.Errorf("%w: %d in cart plus %d requested, available %d",
				ErrInsufficientStock, existing.Quantity, quantity, product.Stock)
		}

		err = s.carts.UpdateQuantityIf(ctx, existing.ID, merged, existing.Quantity)
		if errors.Is(err, store.ErrConcurrentModification) ||
			errors.Is(err, store.ErrCartItemNotFound) {
			// The line changed (or was removed) since we read it; re-run
			// the stock check against fresh data.
			continue
		}
		if err != nil {
			log.Error("failed to merge cart item", "error", err, "item_id", existing.ID)
			return nil, fmt.Errorf("failed to merge cart item: %w", err)
		}

		existing.Quantity = merged
		log.Info("cart item merged",
			"user_id", userID,
			"product_id", productID,
			"quantity", merged)
		return existing, nil
	}

	log.Warn("add to cart gave up after repeated conflicts",
		"user_id", userID, "product_id", productID)
	return nil, ErrConflictRetriesExceeded
}

// UpdateQuantity implements CartService.UpdateQuantity.
func (s *cartServiceImpl) UpdateQuantity(
	ctx context.Context,
	userID, itemID uuid.UUID,
	quantity int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if quantity <= 0 {
		return domain.NewValidationError("quantity", "must be positive", domain.ErrInvalidQuantity)
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		item, err := s.carts.GetByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrCartItemNotFound) {
				return err
			}
			log.Error("failed to load cart item", "error", err, "item_id", itemID)
			return fmt.Errorf("failed to load cart item: %w", err)
		}

		if item.UserID != userID {
			log.Warn("cart item ownership mismatch",
				"item_id", itemID,
				"owner_id", item.UserID,
				"caller_id", userID)
			return domain.ErrUnauthorized
		}

		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				return err
			}
			log.Error("failed to load product", "error", err, "product_id", item.ProductID)
			return fmt.Errorf("failed to load product: %w", err)
		}

		if quantity > product.Stock {
			log.Debug("quantity update rejected, insufficient stock",
				"item_id", itemID,
				"requested", quantity,
				"stock", product.Stock)
			return fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientStock, quantity, product.Stock)
		}

		err = s.carts.UpdateQuantityIf(ctx, itemID, quantity, item.Quantity)
		if errors.Is(err, store.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			if errors.Is(err, store.ErrCartItemNotFound) {
				return err
			}
			log.Error("failed to update cart item", "error", err, "item_id", itemID)
			return fmt.Errorf("failed to update cart item: %w", err)
		}

		log.Info("cart item quantity updated", "item_id", itemID, "quantity", quantity)
		return nil
	}

	log.Warn("quantity update gave up after repeated conflicts", "item_id", itemID)
	return ErrConflictRetriesExceeded
}

// RemoveFromCart implements CartService.RemoveFromCart.
func (s *cartServiceImpl) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrCartItemNotFound) {
			// Idempotent: removing a missing line succeeds.
			return nil
		}
		log.Error("failed to load cart item", "error", err, "item_id", itemID)
		return fmt.Errorf("failed to load cart item: %w", err)
	}

	if item.UserID != userID {
		log.Warn("cart item ownership mismatch",
			"item_id", itemID,
			"owner_id", item.UserID,
			"caller_id", userID)
		return domain.ErrUnauthorized
	}

	if err := s.carts.Delete(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrCartItemNotFound) {
			return nil
		}
		log.Error("failed to delete cart item", "error", err, "item_id", itemID)
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	log.Info("cart item removed", "item_id", itemID, "user_id", userID)
	return nil
}

// ClearCart implements CartService.ClearCart.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		log.Error("failed to clear cart", "error", err, "user_id", userID)
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	log.Info("cart cleared", "user_id", userID)
	return nil
}
