// Package store holds the per-shopper cart, wishlist and filter state.
//
// Mutations update memory immediately and hand a snapshot to a persister
// without waiting for storage. Mutations made before the persisted state was
// loaded are replayed on top of it once it arrives.
package store

import (
	"context"

	"github.com/utafrali/ShopHub/internal/domain"
)

// CartLoader loads a shopper's persisted cart.
type CartLoader interface {
	LoadCart(ctx context.Context, shopperID string) ([]domain.StoredCartItem, error)
}

// WishlistLoader loads a shopper's persisted wishlist.
type WishlistLoader interface {
	LoadWishlist(ctx context.Context, shopperID string) ([]string, error)
}

// CartPersister schedules a cart snapshot for persistence. It must not block.
type CartPersister interface {
	SaveCart(shopperID string, items []domain.StoredCartItem)
}

// WishlistPersister schedules a wishlist snapshot for persistence. It must
// not block.
type WishlistPersister interface {
	SaveWishlist(shopperID string, ids []string)
}

// hydration records the mutations applied to a store before its persisted
// state was loaded so they can be replayed on top of the loaded state. It is
// guarded by the owning store's mutex.
type hydration[T any] struct {
	started bool
	done    bool
	pending []func(*T)
	ready   chan struct{}
}

func newHydration[T any]() hydration[T] {
	return hydration[T]{ready: make(chan struct{})}
}

// record keeps op for replay. After hydration it does nothing.
func (h *hydration[T]) record(op func(*T)) {
	if h.done {
		return
	}
	h.pending = append(h.pending, op)
}

// begin marks hydration as started. It returns false when another call
// already started it.
func (h *hydration[T]) begin() bool {
	if h.started {
		return false
	}
	h.started = true
	return true
}

// finish replays the recorded mutations onto loaded in their original order,
// marks hydration as done and reports whether anything was replayed, in which
// case the result must be persisted.
func (h *hydration[T]) finish(loaded *T) bool {
	for _, op := range h.pending {
		op(loaded)
	}
	replayed := len(h.pending) > 0
	h.pending = nil
	h.done = true
	close(h.ready)
	return replayed
}
