// Package session owns the per-shopper stores. A session is created on first
// use, hydrated from storage in the background and evicted after a period of
// inactivity.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/ShopHub/internal/domain"
	"github.com/utafrali/ShopHub/internal/store"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shophub_sessions_active",
		Help: "Number of shopper sessions held in memory.",
	})

	evictedSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shophub_sessions_evicted_total",
		Help: "Total number of shopper sessions evicted after being idle.",
	})
)

// Loader loads persisted shopper state.
type Loader interface {
	store.CartLoader
	store.WishlistLoader
}

// Persister schedules shopper state for persistence. Pending reports whether
// some of the shopper's state has not reached storage yet.
type Persister interface {
	store.CartPersister
	store.WishlistPersister
	Pending(shopperID string) bool
}

// Config tunes session lifetime.
type Config struct {
	// IdleTimeout is how long an unused session stays in memory.
	IdleTimeout time.Duration
	// SweepInterval is how often idle sessions are looked for.
	SweepInterval time.Duration
	// HydrateTimeout bounds the initial load from storage.
	HydrateTimeout time.Duration
}

// DefaultConfig returns the session defaults.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:    30 * time.Minute,
		SweepInterval:  time.Minute,
		HydrateTimeout: 5 * time.Second,
	}
}

// Session is the application context of one shopper.
type Session struct {
	ShopperID string
	Cart      *store.CartStore
	Wishlist  *store.WishlistStore
	Filter    *store.FilterStore

	lastSeen time.Time
	ready    chan struct{}
}

// Ready is closed once both the cart and the wishlist are hydrated.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the session is hydrated or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) hydrated() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Registry maps shopper ids to sessions.
type Registry struct {
	loader    Loader
	persister Persister
	catalog   domain.ProductLookup
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(loader Loader, persister Persister, catalog domain.ProductLookup, cfg Config, logger *slog.Logger) *Registry {
	defaults := DefaultConfig()
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaults.IdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaults.SweepInterval
	}
	if cfg.HydrateTimeout <= 0 {
		cfg.HydrateTimeout = defaults.HydrateTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		loader:    loader,
		persister: persister,
		catalog:   catalog,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the shopper's session, creating it and starting its hydration
// on first use.
func (r *Registry) Get(shopperID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[shopperID]; ok {
		s.lastSeen = r.now()
		return s
	}

	s := r.newSession(shopperID)
	r.sessions[shopperID] = s
	activeSessions.Set(float64(len(r.sessions)))
	go r.hydrate(s)
	return s
}

// Len returns the number of sessions held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the idle timeout and returns how
// many were removed. A session still hydrating, or whose state has not been
// written yet, is kept until a later sweep so a new session for the same
// shopper never loads stale state.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) <= r.cfg.IdleTimeout {
			continue
		}
		if !s.hydrated() || (r.persister != nil && r.persister.Pending(id)) {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	if evicted > 0 {
		evictedSessions.Add(float64(evicted))
		activeSessions.Set(float64(len(r.sessions)))
		r.logger.Debug("evicted idle sessions", slog.Int("count", evicted))
	}
	return evicted
}

// Run sweeps idle sessions until ctx is canceled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) newSession(shopperID string) *Session {
	return &Session{
		ShopperID: shopperID,
		Cart:      store.NewCartStore(shopperID, r.loader, r.persister, r.logger),
		Wishlist:  store.NewWishlistStore(shopperID, r.loader, r.persister, r.logger),
		Filter:    store.NewFilterStore(),
		lastSeen:  r.now(),
		ready:     make(chan struct{}),
	}
}

func (r *Registry) hydrate(s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.HydrateTimeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Cart.Initialize(ctx, r.catalog)
	}()
	go func() {
		defer wg.Done()
		s.Wishlist.Initialize(ctx)
	}()
	wg.Wait()
	close(s.ready)

	r.logger.Debug("session hydrated", slog.String("shopper_id", s.ShopperID))
}
