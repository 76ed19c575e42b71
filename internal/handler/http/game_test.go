package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/game"
)

func createGame(t *testing.T, h http.Handler) game.State {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/games", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[game.State](t, rec).Data
}

func move(t *testing.T, h http.Handler, id string, index int) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPost, "/api/v1/games/"+id+"/moves", MoveRequest{Index: &index}, "")
}

func TestCreateGame(t *testing.T) {
	router := newTestRouter(t)

	state := createGame(t, router)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, game.Board{}, state.Board)
	assert.Equal(t, game.Circle, state.Next)
	assert.Equal(t, game.StatusInProgress, state.Outcome.Status)

	rec := do(t, router, http.MethodGet, "/api/v1/games/"+state.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.ID, decode[game.State](t, rec).Data.ID)
}

func TestGetGame_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/games/missing", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlay_CircleWinsTopRow(t *testing.T) {
	router := newTestRouter(t)
	id := createGame(t, router).ID

	for _, idx := range []int{0, 3, 1, 4} {
		rec := move(t, router, id, idx)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := move(t, router, id, 2)

	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[game.State](t, rec).Data
	assert.Equal(t, game.StatusWon, state.Outcome.Status)
	assert.Equal(t, game.Circle, state.Outcome.Winner)
	require.NotNil(t, state.Outcome.Line)
	assert.Equal(t, game.Line{0, 1, 2}, *state.Outcome.Line)
	assert.Equal(t, "circle won", state.Message)
}

func TestPlay_FinishedGameNotice(t *testing.T) {
	router := newTestRouter(t)
	id := createGame(t, router).ID
	for _, idx := range []int{0, 3, 1, 4, 2} {
		require.Equal(t, http.StatusOK, move(t, router, id, idx).Code)
	}

	rec := move(t, router, id, 8)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode[game.State](t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOTICE", env.Error.Code)
	assert.Equal(t, game.MsgGameFinished, env.Error.Message)
	assert.Equal(t, game.Empty, env.Data.Board[8])
}

func TestPlay_FilledPositionNotice(t *testing.T) {
	router := newTestRouter(t)
	id := createGame(t, router).ID
	require.Equal(t, http.StatusOK, move(t, router, id, 4).Code)

	rec := move(t, router, id, 4)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode[game.State](t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, game.MsgPositionFilled, env.Error.Message)
	assert.Equal(t, game.Circle, env.Data.Board[4])
	assert.Equal(t, game.Cross, env.Data.Next)
}

func TestPlay_InvalidIndex(t *testing.T) {
	router := newTestRouter(t)
	id := createGame(t, router).ID

	rec := move(t, router, id, 9)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/games/"+id+"/moves", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetGame(t *testing.T) {
	router := newTestRouter(t)
	id := createGame(t, router).ID
	require.Equal(t, http.StatusOK, move(t, router, id, 0).Code)

	rec := do(t, router, http.MethodPost, "/api/v1/games/"+id+"/reset", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[game.State](t, rec).Data
	assert.Equal(t, game.Board{}, state.Board)
	assert.Equal(t, game.Circle, state.Next)
	assert.Equal(t, 0, state.Moves)
}
