package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/ShopHub/internal/password"
	"github.com/utafrali/ShopHub/internal/service"
	"github.com/utafrali/ShopHub/pkg/httputil"
)

// ToolsHandler serves the currency converter and the password generator.
type ToolsHandler struct {
	service *service.ToolsService
	logger  *slog.Logger
}

// NewToolsHandler creates a new tools HTTP handler.
func NewToolsHandler(svc *service.ToolsService, logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{
		service: svc,
		logger:  logger,
	}
}

// ConvertRequest is the JSON request body for a conversion. Amount is kept as
// text so that an empty or malformed value gets its own message.
type ConvertRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency" validate:"max=32"`
}

// PasswordRequest is the JSON request body for password generation. When no
// class flag is sent, lowercase letters are used.
type PasswordRequest struct {
	Length    int   `json:"length"`
	Lowercase *bool `json:"lowercase"`
	Uppercase *bool `json:"uppercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
}

// Options converts the request into generator options.
func (req PasswordRequest) Options() password.Options {
	opts := password.Options{
		Length:    req.Length,
		Lowercase: flag(req.Lowercase),
		Uppercase: flag(req.Uppercase),
		Numbers:   flag(req.Numbers),
		Symbols:   flag(req.Symbols),
	}
	if req.Lowercase == nil && req.Uppercase == nil && req.Numbers == nil && req.Symbols == nil {
		opts.Lowercase = true
	}
	return opts
}

func flag(b *bool) bool {
	return b != nil && *b
}

// PasswordResponse carries a generated password.
type PasswordResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}

// Convert handles POST /api/v1/convert
func (h *ToolsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	result, err := h.service.Convert(r.Context(), req.Amount, req.Currency)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, result)
}

// Currencies handles GET /api/v1/currencies
func (h *ToolsHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Currencies(r.Context()))
}

// GeneratePassword handles POST /api/v1/passwords
func (h *ToolsHandler) GeneratePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	pw, err := h.service.GeneratePassword(r.Context(), req.Options())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, PasswordResponse{Password: pw, Length: len(pw)})
}
