package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/utafrali/ShopHub/pkg/httputil"
)

// ShopperHeader carries the caller's shopper identity.
const ShopperHeader = "X-User-ID"

type contextKeyType string

const shopperIDKey contextKeyType = "shopper_id"

// Shopper ids become part of storage keys, so separators are not allowed.
var shopperIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// RequireShopper rejects requests without a well-formed X-User-ID header and
// stores the shopper id in the request context.
func RequireShopper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ShopperHeader)
		if id == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{Error: &httputil.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "missing " + ShopperHeader + " header",
			}})
			return
		}
		if !shopperIDPattern.MatchString(id) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid " + ShopperHeader + " header",
			}})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithShopperID(r.Context(), id)))
	})
}

// OptionalShopper stores a well-formed X-User-ID in the request context and
// otherwise passes the request through unchanged.
func OptionalShopper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(ShopperHeader); shopperIDPattern.MatchString(id) {
			r = r.WithContext(WithShopperID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithShopperID stores a shopper id in ctx.
func WithShopperID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, shopperIDKey, id)
}

// ShopperIDFromContext returns the shopper id set by RequireShopper.
func ShopperIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(shopperIDKey).(string)
	return id
}
