package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/event"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

func TestWishlist_Toggle(t *testing.T) {
	env := newTestEnv(t)
	svc := env.wishlistService()
	ctx := context.Background()
	id := env.catalog.Products()[2].ID

	env.publisher.On("Publish", ctx, event.TopicWishlistUpdated, mock.Anything).Return(nil).Twice()

	view, err := svc.Toggle(ctx, "user-1", id)
	require.NoError(t, err)
	require.NotNil(t, view.InWishlist)
	assert.True(t, *view.InWishlist)
	assert.Equal(t, []string{id}, view.IDs)

	view, err = svc.Toggle(ctx, "user-1", id)
	require.NoError(t, err)
	assert.False(t, *view.InWishlist)
	assert.Empty(t, view.IDs)
	env.publisher.AssertExpectations(t)
}

func TestWishlist_ToggleUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.wishlistService().Toggle(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWishlist_RemoveAndClear(t *testing.T) {
	env := newTestEnv(t)
	svc := env.wishlistService()
	ctx := context.Background()
	products := env.catalog.Products()

	env.publisher.On("Publish", ctx, event.TopicWishlistUpdated, mock.Anything).Return(nil)

	_, err := svc.Toggle(ctx, "user-1", products[0].ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "user-1", products[1].ID)
	require.NoError(t, err)

	view, err := svc.Remove(ctx, "user-1", products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{products[1].ID}, view.IDs)
	assert.Nil(t, view.InWishlist)

	view, err = svc.Remove(ctx, "user-1", "not-there")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)

	view, err = svc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, view.Count)

	got, err := svc.GetWishlist(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got.IDs)
}
