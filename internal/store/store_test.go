package store

import (
	"context"
	"errors"
	"sync"

	"github.com/utafrali/ShopHub/internal/domain"
)

type mapCatalog map[string]domain.Product

func (m mapCatalog) Lookup(id string) (domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func testCatalog() mapCatalog {
	return mapCatalog{
		"p1": {ID: "p1", Name: "Blue Shirt", Category: "Apparel", DiscountPrice: 500},
		"p2": {ID: "p2", Name: "Wireless Earbuds", Category: "Electronics", DiscountPrice: 1200},
		"p3": {ID: "p3", Name: "Denim Jacket", Category: "Apparel", DiscountPrice: 2500},
	}
}

// fakeStorage implements the loaders and persisters. A non-nil gate blocks
// loads until it is closed.
type fakeStorage struct {
	mu        sync.Mutex
	cart      []domain.StoredCartItem
	wishlist  []string
	loadErr   error
	gate      chan struct{}
	cartSaves [][]domain.StoredCartItem
	listSaves [][]string
}

func (f *fakeStorage) LoadCart(ctx context.Context, shopperID string) ([]domain.StoredCartItem, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.StoredCartItem(nil), f.cart...), f.loadErr
}

func (f *fakeStorage) LoadWishlist(ctx context.Context, shopperID string) ([]string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.wishlist...), f.loadErr
}

func (f *fakeStorage) SaveCart(shopperID string, items []domain.StoredCartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartSaves = append(f.cartSaves, items)
}

func (f *fakeStorage) SaveWishlist(shopperID string, ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listSaves = append(f.listSaves, ids)
}

func (f *fakeStorage) cartWrites() [][]domain.StoredCartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]domain.StoredCartItem(nil), f.cartSaves...)
}

func (f *fakeStorage) wishlistWrites() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.listSaves...)
}

var errStorageDown = errors.New("storage down")
