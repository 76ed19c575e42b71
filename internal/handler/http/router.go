package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ShopHub/internal/service"
	"github.com/utafrali/ShopHub/pkg/health"
	"github.com/utafrali/ShopHub/pkg/middleware"
)

const serviceName = "shophub"

// Services groups the application services exposed over HTTP.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Game     *service.GameService
	Tools    *service.ToolsService
}

// RouterConfig holds transport settings.
type RouterConfig struct {
	PprofCIDRs []string
	CORS       middleware.CORSConfig

	// RateLimitRPS <= 0 disables per-client rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// CacheMaxAge is the max-age, in seconds, of static catalog responses.
	CacheMaxAge int
}

// NewRouter creates a chi router with all ShopHub routes registered. ctx
// bounds background work owned by the router, such as rate limiter cleanup.
func NewRouter(
	ctx context.Context,
	svcs Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	cartHandler := NewCartHandler(svcs.Cart, logger)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist, logger)
	gameHandler := NewGameHandler(svcs.Game, logger)
	toolsHandler := NewToolsHandler(svcs.Tools, logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		}
		r.Use(ContentTypeJSON)

		// Browsing works anonymously; a shopper header scopes the filter store.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalShopper)
			r.Use(middleware.RequestLogger(logger))

			r.Get("/products", catalogHandler.ListProducts)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CacheMaxAge))
			r.Use(middleware.RequestLogger(logger))

			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/currencies", toolsHandler.Currencies)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireShopper)
			r.Use(middleware.RequestLogger(logger))

			r.Route("/filters", func(r chi.Router) {
				r.Get("/", catalogHandler.GetFilters)
				r.Put("/", catalogHandler.SetFilters)
				r.Delete("/", catalogHandler.ClearFilters)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)
				r.Delete("/", wishlistHandler.Clear)

				r.Post("/{productId}/toggle", wishlistHandler.Toggle)
				r.Delete("/{productId}", wishlistHandler.Remove)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequestLogger(logger))

			r.Route("/games", func(r chi.Router) {
				r.Post("/", gameHandler.CreateGame)
				r.Get("/{id}", gameHandler.GetGame)
				r.Post("/{id}/moves", gameHandler.Play)
				r.Post("/{id}/reset", gameHandler.Reset)
			})

			r.Post("/convert", toolsHandler.Convert)
			r.Post("/passwords", toolsHandler.GeneratePassword)
		})
	})

	return r
}
