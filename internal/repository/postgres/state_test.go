package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/domain"
	"github.com/utafrali/ShopHub/internal/repository"
	"github.com/utafrali/ShopHub/pkg/database"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupStore(t *testing.T) (*StateStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStateStore(mock), mock
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestGet_ReturnsStoredValue(t *testing.T) {
	store, mock := setupStore(t)
	key := repository.CartKey("shopper-1")

	mock.ExpectQuery("SELECT value FROM shopper_state WHERE key").
		WithArgs(key).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"1","quantity":2}]`)))

	value, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","quantity":2}]`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_MissingKeyIsNotFound(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectQuery("SELECT value FROM shopper_state WHERE key").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_DatabaseError(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectQuery("SELECT value FROM shopper_state WHERE key").
		WithArgs("k").
		WillReturnError(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "select shopper state")
}

// ---------------------------------------------------------------------------
// Set / Ping
// ---------------------------------------------------------------------------

func TestSet_Upserts(t *testing.T) {
	store, mock := setupStore(t)
	key := repository.WishlistKey("shopper-1")
	value := []byte(`["3","1"]`)

	mock.ExpectExec("INSERT INTO shopper_state").
		WithArgs(key, value).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Set(context.Background(), key, value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_Error(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectExec("INSERT INTO shopper_state").
		WithArgs("k", []byte(`[]`)).
		WillReturnError(errors.New("disk full"))

	err := store.Set(context.Background(), "k", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert shopper state")
}

func TestPing(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectPing()
	require.NoError(t, store.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, store.Ping(context.Background()))
}

// ---------------------------------------------------------------------------
// StateRepository over Postgres
// ---------------------------------------------------------------------------

func TestStateRepository_LoadCartFromPostgres(t *testing.T) {
	store, mock := setupStore(t)
	repo := repository.NewStateRepository(store)

	mock.ExpectQuery("SELECT value FROM shopper_state WHERE key").
		WithArgs(repository.CartKey("s")).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"2","quantity":3}]`)))

	items, err := repo.LoadCart(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, []domain.StoredCartItem{{ID: "2", Quantity: 3}}, items)
}

func TestStateRepository_MissingWishlistIsEmpty(t *testing.T) {
	store, mock := setupStore(t)
	repo := repository.NewStateRepository(store)

	mock.ExpectQuery("SELECT value FROM shopper_state WHERE key").
		WithArgs(repository.WishlistKey("s")).
		WillReturnError(pgx.ErrNoRows)

	ids, err := repo.LoadWishlist(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}
