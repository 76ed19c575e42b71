package game

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// Messages for moves that are refused.
const (
	MsgGameFinished   = "Game already finished. Restart to play again."
	MsgPositionFilled = "Position already filled!"
)

// Game is one tic-tac-toe match. Circle always moves first.
type Game struct {
	ID string

	mu        sync.Mutex
	board     Board
	next      Cell
	outcome   Outcome
	moves     int
	updatedAt time.Time
}

// State is a snapshot of a game.
type State struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Next      Cell      `json:"next"`
	Outcome   Outcome   `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	Moves     int       `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty game.
func New(id string) *Game {
	g := &Game{ID: id}
	g.reset()
	return g
}

// Play places the current player's mark at index. A finished game or an
// occupied cell is refused with a notice and leaves the game unchanged.
func (g *Game) Play(index int) (State, error) {
	if index < 0 || index >= BoardSize {
		return State{}, apperrors.InvalidInput(fmt.Sprintf("index must be between 0 and %d", BoardSize-1))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.outcome.Finished() {
		return g.stateLocked(), apperrors.Notice(MsgGameFinished)
	}
	if g.board[index] != Empty {
		return g.stateLocked(), apperrors.Notice(MsgPositionFilled)
	}

	g.board[index] = g.next
	if g.next == Circle {
		g.next = Cross
	} else {
		g.next = Circle
	}
	g.moves++
	g.outcome = Evaluate(g.board)
	g.updatedAt = time.Now().UTC()
	return g.stateLocked(), nil
}

// Reset clears the board and gives the first move back to Circle.
func (g *Game) Reset() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	return g.stateLocked()
}

// State returns a snapshot of the game.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) lastUpdate() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updatedAt
}

func (g *Game) reset() {
	g.board = Board{}
	g.next = Circle
	g.outcome = Outcome{Status: StatusInProgress}
	g.moves = 0
	g.updatedAt = time.Now().UTC()
}

func (g *Game) stateLocked() State {
	return State{
		ID:        g.ID,
		Board:     g.board,
		Next:      g.next,
		Outcome:   g.outcome,
		Message:   g.outcome.Message(),
		Moves:     g.moves,
		UpdatedAt: g.updatedAt,
	}
}
