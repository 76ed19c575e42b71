package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ShopHub/internal/service"
	"github.com/utafrali/ShopHub/pkg/httputil"
	"github.com/utafrali/ShopHub/pkg/middleware"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.GetWishlist(r.Context(), middleware.ShopperIDFromContext(r.Context())))
}

// Toggle handles POST /api/v1/wishlist/{productId}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	shopperID := middleware.ShopperIDFromContext(r.Context())
	h.respond(w, r)(h.service.Toggle(r.Context(), shopperID, chi.URLParam(r, "productId")))
}

// Remove handles DELETE /api/v1/wishlist/{productId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	shopperID := middleware.ShopperIDFromContext(r.Context())
	h.respond(w, r)(h.service.Remove(r.Context(), shopperID, chi.URLParam(r, "productId")))
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.Clear(r.Context(), middleware.ShopperIDFromContext(r.Context())))
}

func (h *WishlistHandler) respond(w http.ResponseWriter, r *http.Request) func(*service.WishlistView, error) {
	return func(view *service.WishlistView, err error) {
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, view)
	}
}
