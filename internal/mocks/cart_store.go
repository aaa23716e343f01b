package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/store"
)

// MockCartStore implements store.CartStore for testing. The in-memory
// default mirrors the PostgreSQL implementation's concurrency contract:
// Create enforces the unique (user, product) pair and UpdateQuantityIf
// is a compare-and-swap, both under a mutex, so service-level race tests
// observe the same semantics as the real store.
type MockCartStore struct {
	FindByUserAndProductFn func(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error)
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.CartItem, error)
	ListByUserFn           func(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	CreateFn               func(ctx context.Context, item *domain.CartItem) error
	UpdateQuantityFn       func(ctx context.Context, id uuid.UUID, quantity int) error
	UpdateQuantityIfFn     func(ctx context.Context, id uuid.UUID, quantity, observed int) error
	DeleteFn               func(ctx context.Context, id uuid.UUID) error
	DeleteByUserFn         func(ctx context.Context, userID uuid.UUID) error

	mu    sync.Mutex
	items map[uuid.UUID]*domain.CartItem
}

var _ store.CartStore = (*MockCartStore)(nil)

// NewMockCartStore creates a mock store with an empty in-memory default.
func NewMockCartStore() *MockCartStore {
	return &MockCartStore{items: make(map[uuid.UUID]*domain.CartItem)}
}

// FindByUserAndProduct implements store.CartStore.FindByUserAndProduct.
func (m *MockCartStore) FindByUserAndProduct(
	ctx context.Context,
	userID, productID uuid.UUID,
) (*domain.CartItem, error) {
	if m.FindByUserAndProductFn != nil {
		return m.FindByUserAndProductFn(ctx, userID, productID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, store.ErrCartItemNotFound
}

// GetByID implements store.CartStore.GetByID.
func (m *MockCartStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.items[id]
	if !exists {
		return nil, store.ErrCartItemNotFound
	}
	copied := *item
	return &copied, nil
}

// ListByUser implements store.CartStore.ListByUser.
func (m *MockCartStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.CartItem, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var items []*domain.CartItem
	for _, item := range m.items {
		if item.UserID == userID {
			copied := *item
			items = append(items, &copied)
		}
	}
	return items, nil
}

// Create implements store.CartStore.Create.
func (m *MockCartStore) Create(ctx context.Context, item *domain.CartItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return store.ErrCartItemExists
		}
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

// UpdateQuantity implements store.CartStore.UpdateQuantity.
func (m *MockCartStore) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if m.UpdateQuantityFn != nil {
		return m.UpdateQuantityFn(ctx, id, quantity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.items[id]
	if !exists {
		return store.ErrCartItemNotFound
	}
	item.Quantity = quantity
	return nil
}

// UpdateQuantityIf implements store.CartStore.UpdateQuantityIf.
func (m *MockCartStore) UpdateQuantityIf(
	ctx context.Context,
	id uuid.UUID,
	quantity, observed int,
) error {
	if m.UpdateQuantityIfFn != nil {
		return m.UpdateQuantityIfFn(ctx, id, quantity, observed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.items[id]
	if !exists {
		return store.ErrCartItemNotFound
	}
	if item.Quantity != observed {
		return store.ErrConcurrentModification
	}
	item.Quantity = quantity
	return nil
}

// Delete implements store.CartStore.Delete.
func (m *MockCartStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[id]; !exists {
		return store.ErrCartItemNotFound
	}
	delete(m.items, id)
	return nil
}

// DeleteByUser implements store.CartStore.DeleteByUser.
func (m *MockCartStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteByUserFn != nil {
		return m.DeleteByUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}
