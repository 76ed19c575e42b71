package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/ShopHub/internal/domain"
)

// CartStore holds one shopper's cart. It is safe for concurrent use.
// Operations on unknown product ids are silently absorbed.
type CartStore struct {
	shopperID string
	loader    CartLoader
	persister CartPersister
	logger    *slog.Logger

	mu    sync.RWMutex
	cart  domain.Cart
	hydra hydration[domain.Cart]
}

// NewCartStore creates an empty cart store. loader and persister may be nil.
func NewCartStore(shopperID string, loader CartLoader, persister CartPersister, logger *slog.Logger) *CartStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CartStore{
		shopperID: shopperID,
		loader:    loader,
		persister: persister,
		logger:    logger,
		cart:      domain.Cart{Lines: []domain.CartLine{}},
		hydra:     newHydration[domain.Cart](),
	}
}

// AddItem increments the quantity of the product's line, or inserts a new
// line with quantity 1.
func (s *CartStore) AddItem(product domain.Product) {
	s.AddItemUpTo(product, 0)
}

// AddItemUpTo adds one unit of product unless its line already holds limit
// units, in which case nothing changes and it returns false. A limit of zero
// or less means no limit.
func (s *CartStore) AddItemUpTo(product domain.Product, limit int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.AddUnit(product, limit) {
		return false
	}
	s.hydra.record(func(c *domain.Cart) { c.AddUnit(product, limit) })
	s.persistLocked()
	return true
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (s *CartStore) UpdateQuantity(id string, quantity int) {
	s.apply(func(c *domain.Cart) { c.SetQuantity(id, quantity) })
}

// RemoveItem deletes the line for id if present.
func (s *CartStore) RemoveItem(id string) {
	s.apply(func(c *domain.Cart) { c.Remove(id) })
}

// ClearCart removes every line.
func (s *CartStore) ClearCart() {
	s.apply(func(c *domain.Cart) { c.Clear() })
}

// apply runs op on the cart, keeps it for replay when hydration has not
// finished, and persists the result.
func (s *CartStore) apply(op func(*domain.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op(&s.cart)
	s.hydra.record(op)
	s.persistLocked()
}

// Total returns the sum of discountPrice * quantity.
func (s *CartStore) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Total()
}

// Count returns the number of units in the cart.
func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Count()
}

// ItemsCount returns the number of distinct lines.
func (s *CartStore) ItemsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.ItemsCount()
}

// IsInCart reports whether the cart has a line for id.
func (s *CartStore) IsInCart(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.FindLineIndex(id) >= 0
}

// ItemQuantity returns the quantity for id, or 0 when absent.
func (s *CartStore) ItemQuantity(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.cart.FindLineIndex(id); i >= 0 {
		return s.cart.Lines[i].Quantity
	}
	return 0
}

// Items returns a copy of the lines in insertion order.
func (s *CartStore) Items() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsLocked()
}

// Snapshot returns a copy of the whole cart.
func (s *CartStore) Snapshot() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Cart{Lines: s.itemsLocked()}
}

// Initialize loads the persisted cart and resolves it against catalog,
// dropping unknown ids. Mutations made before the load finished are replayed
// on the loaded cart and the result is persisted once. Load failures are
// logged and treated as an empty cart. Only the first call has any effect.
func (s *CartStore) Initialize(ctx context.Context, catalog domain.ProductLookup) {
	s.mu.Lock()
	if !s.hydra.begin() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	var stored []domain.StoredCartItem
	if s.loader != nil {
		var err error
		stored, err = s.loader.LoadCart(ctx, s.shopperID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load persisted cart",
				slog.String("shopper_id", s.shopperID),
				slog.String("error", err.Error()),
			)
			stored = nil
		}
	}
	loaded := domain.Cart{Lines: domain.ResolveCart(stored, catalog)}

	s.mu.Lock()
	defer s.mu.Unlock()

	replayed := s.hydra.finish(&loaded)
	s.cart = loaded
	if replayed {
		s.persistLocked()
	}
}

// Ready is closed once Initialize has finished.
func (s *CartStore) Ready() <-chan struct{} {
	return s.hydra.ready
}

func (s *CartStore) itemsLocked() []domain.CartLine {
	items := make([]domain.CartLine, len(s.cart.Lines))
	copy(items, s.cart.Lines)
	return items
}

// persistLocked hands the current cart to the persister. Before hydration
// nothing is written so the persisted cart is not overwritten before it has
// been read.
func (s *CartStore) persistLocked() {
	if s.persister == nil || !s.hydra.done {
		return
	}
	s.persister.SaveCart(s.shopperID, s.cart.Stored())
}
