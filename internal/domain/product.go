package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Product validation errors.
var (
	ErrEmptyProductID   = errors.New("product ID cannot be empty")
	ErrEmptyProductName = errors.New("product name cannot be empty")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)

// Product is a catalog entry. The cart service treats products as
// read-only; stock is the upper bound for any cart line quantity.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the Product carries valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
