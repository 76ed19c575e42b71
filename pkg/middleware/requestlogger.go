package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/ShopHub/pkg/logger"
)

// RequestLogger stores a logger enriched with request_id, shopper_id,
// trace_id and span_id in the request context. Mount it after
// RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			shopperID := ShopperIDFromContext(ctx)
			if shopperID == "" {
				shopperID = r.Header.Get(ShopperHeader)
			}
			if shopperID != "" {
				ctx = logger.WithShopperID(ctx, shopperID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
