package api

import (
	"log/slog"
	"net/http"

	"github.com/storely/storely-api/internal/api/shared"
	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/service"
	"github.com/storely/storely-api/internal/store"
)

// ProductHandler handles catalog API requests.
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a ProductHandler with the given dependencies.
func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		productService: productService,
		logger:         logger.With(slog.String("component", "product_handler")),
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		HandleServiceError(w, r, err)
		return
	}

	if products == nil {
		products = []*domain.Product{} // never encode null for a list
	}

	shared.RespondWithData(w, r, http.StatusOK, "Products", products)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			h.logger.Error("failed to get product", "error", err, "product_id", id)
		}
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Product", product)
}
