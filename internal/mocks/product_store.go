package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/store"
)

// MockProductStore implements store.ProductStore for testing.
type MockProductStore struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListFn    func(ctx context.Context) ([]*domain.Product, error)

	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
}

var _ store.ProductStore = (*MockProductStore)(nil)

// NewMockProductStore creates a mock store seeded with the given products.
func NewMockProductStore(products ...*domain.Product) *MockProductStore {
	m := &MockProductStore{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

// Add seeds an additional product.
func (m *MockProductStore) Add(p *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// GetByID implements store.ProductStore.GetByID.
func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, exists := m.products[id]
	if !exists {
		return nil, store.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

// List implements store.ProductStore.List.
func (m *MockProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	return products, nil
}
