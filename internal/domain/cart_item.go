package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CartItem validation errors.
var (
	ErrEmptyCartItemID  = errors.New("cart item ID cannot be empty")
	ErrEmptyCartUserID  = errors.New("cart item user ID cannot be empty")
	ErrEmptyCartProduct = errors.New("cart item product ID cannot be empty")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// CartItem is one line of a user's cart. At most one item exists per
// (user, product) pair; adding the same product again merges quantities.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCartItem creates a CartItem with a fresh ID and timestamps.
func NewCartItem(userID, productID uuid.UUID, quantity int) (*CartItem, error) {
	now := time.Now().UTC()
	item := &CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks that the CartItem carries valid data.
func (i *CartItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyCartItemID
	}
	if i.UserID == uuid.Nil {
		return ErrEmptyCartUserID
	}
	if i.ProductID == uuid.Nil {
		return ErrEmptyCartProduct
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}
