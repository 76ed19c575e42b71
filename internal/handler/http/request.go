package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/ShopHub/pkg/httputil"
	"github.com/utafrali/ShopHub/pkg/validator"
)

// decodeBody decodes and validates a JSON body into dst. On failure the
// error response is written and false is returned.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, logger *slog.Logger) bool {
	err := validator.DecodeAndValidate(r, dst)
	if err == nil {
		return true
	}

	var valErr *validator.ValidationError
	switch {
	case errors.As(err, &valErr):
		httputil.WriteError(w, r, err, logger)
	case errors.Is(err, io.EOF):
		httputil.WriteBadRequest(w, "request body is required")
	default:
		httputil.WriteBadRequest(w, "invalid request body")
	}
	return false
}
