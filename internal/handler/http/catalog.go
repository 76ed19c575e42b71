package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ShopHub/internal/service"
	"github.com/utafrali/ShopHub/pkg/httputil"
	"github.com/utafrali/ShopHub/pkg/middleware"
	"github.com/utafrali/ShopHub/pkg/pagination"
)

// CatalogHandler serves products, categories and the filter store.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// FilterRequest is the JSON body for PUT /api/v1/filters. Omitted fields are
// left unchanged.
type FilterRequest struct {
	Search   *string `json:"search" validate:"omitempty,max=200"`
	Category *string `json:"category" validate:"omitempty,max=100"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var input service.QueryInput
	if q.Has("q") {
		search := q.Get("q")
		input.Search = &search
	}
	if q.Has("category") {
		category := q.Get("category")
		input.Category = &category
	}

	shopperID := middleware.ShopperIDFromContext(r.Context())
	page, err := h.service.ListProducts(r.Context(), shopperID, input, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, page)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// Categories handles GET /api/v1/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Categories(r.Context()))
}

// GetFilters handles GET /api/v1/filters
func (h *CatalogHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	shopperID := middleware.ShopperIDFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, h.service.GetFilters(r.Context(), shopperID))
}

// SetFilters handles PUT /api/v1/filters
func (h *CatalogHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	shopperID := middleware.ShopperIDFromContext(r.Context())
	criteria, err := h.service.SetFilters(r.Context(), shopperID, service.QueryInput{
		Search:   req.Search,
		Category: req.Category,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, criteria)
}

// ClearFilters handles DELETE /api/v1/filters
func (h *CatalogHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	shopperID := middleware.ShopperIDFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, h.service.ClearFilters(r.Context(), shopperID))
}
