package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/ShopHub/internal/service"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
	"github.com/utafrali/ShopHub/pkg/httputil"
	"github.com/utafrali/ShopHub/pkg/logger"
)

// GameHandler handles HTTP requests for tic-tac-toe games.
type GameHandler struct {
	service *service.GameService
	logger  *slog.Logger
}

// NewGameHandler creates a new game HTTP handler.
func NewGameHandler(svc *service.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		service: svc,
		logger:  logger,
	}
}

// MoveRequest is the JSON request body for a move.
type MoveRequest struct {
	Index *int `json:"index" validate:"required,gte=0,lte=8" label:"Index"`
}

// CreateGame handles POST /api/v1/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusCreated, h.service.Create(r.Context()))
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// Play handles POST /api/v1/games/{id}/moves. A refused move answers 409
// with the unchanged board alongside the notice.
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	state, err := h.service.Play(r.Context(), chi.URLParam(r, "id"), *req.Index)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.Is(err, apperrors.ErrNotice) && errors.As(err, &appErr) {
			httputil.WriteJSON(w, appErr.Status, httputil.Response{
				Data: state,
				Error: &httputil.ErrorResponse{
					Code:      appErr.Code,
					Message:   appErr.Message,
					RequestID: logger.RequestIDFromContext(r.Context()),
				},
			})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// Reset handles POST /api/v1/games/{id}/reset
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}
