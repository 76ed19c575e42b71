package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/service"
)

func toggle(t *testing.T, h http.Handler, productID string) service.WishlistView {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/wishlist/"+productID+"/toggle", nil, testShopper)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[service.WishlistView](t, rec).Data
}

func TestWishlist_ToggleTwiceRestores(t *testing.T) {
	router := newTestRouter(t)

	view := toggle(t, router, "3")
	assert.Equal(t, []string{"3"}, view.IDs)
	require.NotNil(t, view.InWishlist)
	assert.True(t, *view.InWishlist)

	view = toggle(t, router, "3")
	assert.Empty(t, view.IDs)
	require.NotNil(t, view.InWishlist)
	assert.False(t, *view.InWishlist)
}

func TestWishlist_OrderAndCount(t *testing.T) {
	router := newTestRouter(t)
	toggle(t, router, "5")
	toggle(t, router, "2")

	rec := do(t, router, http.MethodGet, "/api/v1/wishlist", nil, testShopper)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[service.WishlistView](t, rec).Data
	assert.Equal(t, []string{"5", "2"}, view.IDs)
	assert.Equal(t, 2, view.Count)
	assert.Nil(t, view.InWishlist)
}

func TestWishlist_ToggleUnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/wishlist/999/toggle", nil, testShopper)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlist_Remove(t *testing.T) {
	router := newTestRouter(t)
	toggle(t, router, "5")
	toggle(t, router, "2")

	rec := do(t, router, http.MethodDelete, "/api/v1/wishlist/5", nil, testShopper)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2"}, decode[service.WishlistView](t, rec).Data.IDs)

	// Removing an absent id is not an error.
	rec = do(t, router, http.MethodDelete, "/api/v1/wishlist/5", nil, testShopper)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[service.WishlistView](t, rec).Data.Count)
}

func TestWishlist_Clear(t *testing.T) {
	router := newTestRouter(t)
	toggle(t, router, "5")

	rec := do(t, router, http.MethodDelete, "/api/v1/wishlist", nil, testShopper)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[service.WishlistView](t, rec).Data
	assert.Empty(t, view.IDs)
	assert.Equal(t, 0, view.Count)
}
