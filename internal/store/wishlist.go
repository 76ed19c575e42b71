package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/ShopHub/internal/domain"
)

// WishlistStore holds one shopper's liked product ids. It is safe for
// concurrent use.
type WishlistStore struct {
	shopperID string
	loader    WishlistLoader
	persister WishlistPersister
	logger    *slog.Logger

	mu       sync.RWMutex
	wishlist domain.Wishlist
	hydra    hydration[domain.Wishlist]
}

// NewWishlistStore creates an empty wishlist store. loader and persister may
// be nil.
func NewWishlistStore(shopperID string, loader WishlistLoader, persister WishlistPersister, logger *slog.Logger) *WishlistStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WishlistStore{
		shopperID: shopperID,
		loader:    loader,
		persister: persister,
		logger:    logger,
		wishlist:  domain.Wishlist{IDs: []string{}},
		hydra:     newHydration[domain.Wishlist](),
	}
}

// Toggle removes id when present and appends it otherwise. It returns true
// when id is in the wishlist afterwards.
func (s *WishlistStore) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.wishlist.Toggle(id)
	s.hydra.record(func(w *domain.Wishlist) { w.Toggle(id) })
	s.persistLocked()
	return added
}

// Remove deletes id if present.
func (s *WishlistStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlist.Remove(id)
	s.hydra.record(func(w *domain.Wishlist) { w.Remove(id) })
	s.persistLocked()
}

// Clear empties the wishlist.
func (s *WishlistStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlist.Clear()
	s.hydra.record(func(w *domain.Wishlist) { w.Clear() })
	s.persistLocked()
}

// Contains reports whether id is in the wishlist.
func (s *WishlistStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wishlist.Contains(id)
}

// Count returns the number of ids in the wishlist.
func (s *WishlistStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wishlist.Count()
}

// Items returns a copy of the ids in insertion order.
func (s *WishlistStore) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsLocked()
}

// Initialize loads the persisted wishlist and replays on it any change made
// before the load finished. Load failures are logged and treated as an empty
// wishlist. Only the first call has any effect.
func (s *WishlistStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	if !s.hydra.begin() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	var loaded []string
	if s.loader != nil {
		var err error
		loaded, err = s.loader.LoadWishlist(ctx, s.shopperID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load persisted wishlist",
				slog.String("shopper_id", s.shopperID),
				slog.String("error", err.Error()),
			)
			loaded = nil
		}
	}
	wishlist := domain.Wishlist{IDs: domain.DedupeIDs(loaded)}

	s.mu.Lock()
	defer s.mu.Unlock()

	replayed := s.hydra.finish(&wishlist)
	s.wishlist = wishlist
	if replayed {
		s.persistLocked()
	}
}

// Ready is closed once Initialize has finished.
func (s *WishlistStore) Ready() <-chan struct{} {
	return s.hydra.ready
}

func (s *WishlistStore) itemsLocked() []string {
	items := make([]string, len(s.wishlist.IDs))
	copy(items, s.wishlist.IDs)
	return items
}

func (s *WishlistStore) persistLocked() {
	if s.persister == nil || !s.hydra.done {
		return
	}
	s.persister.SaveWishlist(s.shopperID, s.itemsLocked())
}
