package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// Registry keeps games in memory keyed by id.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
	ttl   time.Duration
	now   func() time.Time
}

// NewRegistry creates an empty registry. Games untouched for longer than ttl
// are removed by Sweep; a zero ttl keeps them forever.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		games: make(map[string]*Game),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create starts a new game with a random id.
func (r *Registry) Create() *Game {
	g := New(uuid.NewString())

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()
	return g
}

// Get returns the game with id or a NOT_FOUND error.
func (r *Registry) Get(id string) (*Game, error) {
	r.mu.RLock()
	g, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("game", id)
	}
	return g, nil
}

// Len returns the number of games held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep removes stale games and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, g := range r.games {
		if g.lastUpdate().Before(cutoff) {
			delete(r.games, id)
			removed++
		}
	}
	return removed
}
