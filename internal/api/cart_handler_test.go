package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storely/storely-api/internal/api/shared"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/mocks"
	"github.com/storely/storely-api/internal/service"
)

type cartTestFixture struct {
	router   chi.Router
	userID   uuid.UUID
	products *mocks.MockProductStore
	carts    *mocks.MockCartStore
}

// newCartTestFixture wires a cart handler behind the real routes with a
// middleware that stamps the fixture's user ID onto every request.
func newCartTestFixture(t *testing.T, products ...*domain.Product) *cartTestFixture {
	t.Helper()

	fixture := &cartTestFixture{
		userID:   uuid.New(),
		products: mocks.NewMockProductStore(products...),
		carts:    mocks.NewMockCartStore(),
	}

	handler := NewCartHandler(service.NewCartService(fixture.carts, fixture.products, nil), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, fixture.userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/cart", handler.GetCart)
	r.Delete("/api/cart", handler.ClearCart)
	r.Post("/api/cart/items", handler.AddItem)
	r.Put("/api/cart/items/{id}", handler.UpdateItem)
	r.Delete("/api/cart/items/{id}", handler.RemoveItem)

	fixture.router = r
	return fixture
}

func (f *cartTestFixture) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func (f *cartTestFixture) addItem(t *testing.T, productID uuid.UUID, quantity int) *domain.CartItem {
	t.Helper()

	recorder := f.do(t, http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": productID.String(),
		"quantity":   quantity,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data domain.CartItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return &envelope.Data
}

func testCatalogProduct(stock int) *domain.Product {
	return &domain.Product{
		ID:       uuid.New(),
		Name:     "Espresso Grinder",
		Price:    249.00,
		Category: "kitchen",
		Stock:    stock,
	}
}

func TestGetCartEmpty(t *testing.T) {
	t.Parallel()

	fixture := newCartTestFixture(t)
	recorder := fixture.do(t, http.MethodGet, "/api/cart", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	// An empty cart is an empty array, never null.
	assert.Contains(t, recorder.Body.String(), `"data":[]`)
}

func TestAddItemEndpoint(t *testing.T) {
	t.Parallel()

	product := testCatalogProduct(10)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name: "valid item",
			payload: map[string]any{
				"product_id": product.ID.String(),
				"quantity":   2,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unknown product",
			payload: map[string]any{
				"product_id": uuid.New().String(),
				"quantity":   2,
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed product id",
			payload: map[string]any{
				"product_id": "not-a-uuid",
				"quantity":   2,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "zero quantity",
			payload: map[string]any{
				"product_id": product.ID.String(),
				"quantity":   0,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "quantity beyond stock",
			payload: map[string]any{
				"product_id": product.ID.String(),
				"quantity":   11,
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fixture := newCartTestFixture(t, product)
			recorder := fixture.do(t, http.MethodPost, "/api/cart/items", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}

func TestAddItemEndpointMerges(t *testing.T) {
	t.Parallel()

	product := testCatalogProduct(10)
	fixture := newCartTestFixture(t, product)

	first := fixture.addItem(t, product.ID, 3)
	second := fixture.addItem(t, product.ID, 2)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
}

func TestUpdateItemEndpoint(t *testing.T) {
	t.Parallel()

	product := testCatalogProduct(5)
	fixture := newCartTestFixture(t, product)
	item := fixture.addItem(t, product.ID, 2)

	recorder := fixture.do(t, http.MethodPut,
		fmt.Sprintf("/api/cart/items/%s", item.ID), map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Beyond stock is rejected.
	recorder = fixture.do(t, http.MethodPut,
		fmt.Sprintf("/api/cart/items/%s", item.ID), map[string]any{"quantity": 6})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Unknown item is a 404.
	recorder = fixture.do(t, http.MethodPut,
		fmt.Sprintf("/api/cart/items/%s", uuid.New()), map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// Malformed item ID is a 400.
	recorder = fixture.do(t, http.MethodPut,
		"/api/cart/items/not-a-uuid", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRemoveItemEndpoint(t *testing.T) {
	t.Parallel()

	product := testCatalogProduct(10)
	fixture := newCartTestFixture(t, product)
	item := fixture.addItem(t, product.ID, 2)

	path := fmt.Sprintf("/api/cart/items/%s", item.ID)
	assert.Equal(t, http.StatusOK, fixture.do(t, http.MethodDelete, path, nil).Code)
	// Deleting again still succeeds.
	assert.Equal(t, http.StatusOK, fixture.do(t, http.MethodDelete, path, nil).Code)
}

func TestClearCartEndpoint(t *testing.T) {
	t.Parallel()

	product := testCatalogProduct(10)
	fixture := newCartTestFixture(t, product)
	fixture.addItem(t, product.ID, 2)

	assert.Equal(t, http.StatusOK, fixture.do(t, http.MethodDelete, "/api/cart", nil).Code)
	assert.Contains(t, fixture.do(t, http.MethodGet, "/api/cart", nil).Body.String(), `"data":[]`)
}

func TestCartEndpointsRequireAuthenticatedUser(t *testing.T) {
	t.Parallel()

	// No user ID in context: every cart route refuses.
	handler := NewCartHandler(
		service.NewCartService(mocks.NewMockCartStore(), mocks.NewMockProductStore(), nil), nil)

	r := chi.NewRouter()
	r.Get("/api/cart", handler.GetCart)
	r.Post("/api/cart/items", handler.AddItem)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart/items"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewReader(nil))
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, tc.path)
	}
}
