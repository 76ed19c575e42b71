package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/ShopHub/internal/game"
)

// GameService manages tic-tac-toe games.
type GameService struct {
	registry *game.Registry
	logger   *slog.Logger
}

// NewGameService creates a new game service.
func NewGameService(registry *game.Registry, logger *slog.Logger) *GameService {
	return &GameService{registry: registry, logger: logger}
}

// Create starts a new game.
func (s *GameService) Create(ctx context.Context) game.State {
	g := s.registry.Create()
	s.logger.DebugContext(ctx, "game created", slog.String("game_id", g.ID))
	return g.State()
}

// Get returns the state of a game.
func (s *GameService) Get(ctx context.Context, id string) (game.State, error) {
	g, err := s.registry.Get(id)
	if err != nil {
		return game.State{}, err
	}
	return g.State(), nil
}

// Play makes a move for the player whose turn it is.
func (s *GameService) Play(ctx context.Context, id string, index int) (game.State, error) {
	g, err := s.registry.Get(id)
	if err != nil {
		return game.State{}, err
	}

	st, err := g.Play(index)
	if err != nil {
		return st, err
	}
	if st.Outcome.Finished() {
		s.logger.InfoContext(ctx, "game finished",
			slog.String("game_id", id),
			slog.String("outcome", st.Message),
		)
	}
	return st, nil
}

// Reset restarts a game.
func (s *GameService) Reset(ctx context.Context, id string) (game.State, error) {
	g, err := s.registry.Get(id)
	if err != nil {
		return game.State{}, err
	}
	return g.Reset(), nil
}
