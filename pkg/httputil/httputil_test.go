package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/ShopHub/pkg/errors"
	"github.com/utafrali/ShopHub/pkg/logger"
	"github.com/utafrali/ShopHub/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

// ---------------------------------------------------------------------------
// WriteJSON / WriteData
// ---------------------------------------------------------------------------

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"k": "v"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"k":"v"}`, rec.Body.String())
}

func TestWriteData_WrapsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusOK, []int{1, 2})

	assert.JSONEq(t, `{"data":[1,2]}`, rec.Body.String())
}

// ---------------------------------------------------------------------------
// WriteError
// ---------------------------------------------------------------------------

func TestWriteError_AppErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantCode string
		status   int
	}{
		{apperrors.NotFound("product", "9"), "NOT_FOUND", http.StatusNotFound},
		{apperrors.InvalidInput("Please enter amount"), "INVALID_INPUT", http.StatusBadRequest},
		{apperrors.Notice("Position already filled!"), "NOTICE", http.StatusConflict},
		{apperrors.Unavailable("rates offline"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", apperrors.NotFound("game", "x")), "NOT_FOUND", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, testLogger())

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestWriteError_NoticeMessagePassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil),
		apperrors.Notice("Game already finished. Restart to play again."), testLogger())

	assert.Equal(t, "Game already finished. Restart to play again.", decodeError(t, rec).Message)
}

func TestWriteError_SentinelWrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		fmt.Errorf("load: %w", apperrors.ErrNotFound), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestWriteError_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), errors.New("redis exploded"), l)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, body.Message, "redis")
	assert.Contains(t, buf.String(), "redis exploded")
}

func TestWriteError_ValidationError(t *testing.T) {
	type req struct {
		Quantity int `json:"quantity" validate:"lte=99"`
	}
	err := validator.Validate(req{Quantity: 100})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPut, "/", nil), err, testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "must be at most 99", body.Fields["quantity"])
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logger.WithRequestID(r.Context(), "req-42"))

	rec := httptest.NewRecorder()
	WriteError(rec, r, apperrors.NotFound("product", "1"), testLogger())

	assert.Equal(t, "req-42", decodeError(t, rec).RequestID)
}

func TestWriteError_NoRequestIDOmitsField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.NotFound("product", "1"), testLogger())

	assert.NotContains(t, rec.Body.String(), "request_id")
}

func TestWriteBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteBadRequest(rec, "invalid request body")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	assert.Equal(t, "invalid request body", body.Message)
}

// ---------------------------------------------------------------------------
// ParseUUID
// ---------------------------------------------------------------------------

func TestParseUUID_Valid(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	assert.True(t, ok)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseUUID_Invalid(t *testing.T) {
	for _, in := range []string{"", "not-a-uuid", "1234"} {
		rec := httptest.NewRecorder()
		_, ok := ParseUUID(rec, in)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
	}
}
