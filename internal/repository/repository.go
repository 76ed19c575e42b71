package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utafrali/ShopHub/internal/domain"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// Fixed entry names of the persisted shopper state.
const (
	CartEntry     = "@shopping_cart"
	WishlistEntry = "@shopping_wishlist"
)

const keyPrefix = "shophub:"

// KeyValueStore defines the durable key-value operations the shopper state
// is persisted through.
type KeyValueStore interface {
	// Get returns the value stored under key. A missing key yields an error
	// wrapping apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error
}

// Key returns the namespaced storage key for a shopper entry.
func Key(shopperID, entry string) string {
	return keyPrefix + shopperID + ":" + entry
}

// CartKey returns the storage key of the shopper's cart.
func CartKey(shopperID string) string {
	return Key(shopperID, CartEntry)
}

// WishlistKey returns the storage key of the shopper's wishlist.
func WishlistKey(shopperID string) string {
	return Key(shopperID, WishlistEntry)
}

// EncodeCart serializes cart items into the persisted JSON array form.
func EncodeCart(items []domain.StoredCartItem) ([]byte, error) {
	if items == nil {
		items = []domain.StoredCartItem{}
	}
	return json.Marshal(items)
}

// EncodeWishlist serializes wishlist ids into the persisted JSON array form.
func EncodeWishlist(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

// StateRepository reads and clears persisted shopper state.
type StateRepository struct {
	kv KeyValueStore
}

// NewStateRepository creates a state repository on top of a key-value store.
func NewStateRepository(kv KeyValueStore) *StateRepository {
	return &StateRepository{kv: kv}
}

// LoadCart returns the persisted cart items. A shopper without a stored cart
// gets an empty list.
func (r *StateRepository) LoadCart(ctx context.Context, shopperID string) ([]domain.StoredCartItem, error) {
	data, err := r.load(ctx, CartKey(shopperID))
	if err != nil || data == nil {
		return []domain.StoredCartItem{}, err
	}

	var items []domain.StoredCartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return []domain.StoredCartItem{}, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

// LoadWishlist returns the persisted wishlist ids. A shopper without a stored
// wishlist gets an empty list.
func (r *StateRepository) LoadWishlist(ctx context.Context, shopperID string) ([]string, error) {
	data, err := r.load(ctx, WishlistKey(shopperID))
	if err != nil || data == nil {
		return []string{}, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return []string{}, fmt.Errorf("unmarshal wishlist: %w", err)
	}
	return ids, nil
}

func (r *StateRepository) load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}
