package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/storely/storely-api/internal/api/shared"
	"github.com/storely/storely-api/internal/service"
	"github.com/storely/storely-api/internal/store"
)

// CartHandler handles cart API requests. All routes require an
// authenticated user; the user ID comes from the request context.
type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCartHandler creates a CartHandler with the given dependencies.
func NewCartHandler(cartService service.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "cart_handler")),
	}
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	entries, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get cart", "error", err, "user_id", userID)
		HandleServiceError(w, r, err)
		return
	}

	if entries == nil {
		entries = []service.CartEntry{}
	}

	shared.RespondWithData(w, r, http.StatusOK, "Cart", entries)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Please provide product_id and a positive quantity")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product_id")
		return
	}

	item, err := h.cartService.AddToCart(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		if !store.IsNotFoundError(err) {
			h.logger.Debug("add to cart failed", "error", err, "user_id", userID)
		}
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "Item added to cart", item)
}

// UpdateItem handles PUT /api/cart/items/{id}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdateCartItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Please provide a positive quantity")
		return
	}

	if err := h.cartService.UpdateQuantity(r.Context(), userID, itemID, req.Quantity); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Cart item updated", nil)
}

// RemoveItem handles DELETE /api/cart/items/{id}. Removing a missing
// item succeeds.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.cartService.RemoveFromCart(r.Context(), userID, itemID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Cart item removed", nil)
}

// ClearCart handles DELETE /api/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(r.Context(), userID); err != nil {
		h.logger.Error("failed to clear cart", "error", err, "user_id", userID)
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Cart cleared", nil)
}
