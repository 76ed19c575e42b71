// Package game implements tic-tac-toe boards, outcome checking and an
// in-memory registry of games.
package game

import (
	"encoding/json"
	"fmt"
)

// Cell is the content of one board position.
type Cell int

// Cell values.
const (
	Empty Cell = iota
	Circle
	Cross
)

// String returns the lowercase name of the cell.
func (c Cell) String() string {
	switch c {
	case Circle:
		return "circle"
	case Cross:
		return "cross"
	default:
		return "empty"
	}
}

// MarshalJSON encodes the cell as its name.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a cell name.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "empty", "":
		*c = Empty
	case "circle":
		*c = Circle
	case "cross":
		*c = Cross
	default:
		return fmt.Errorf("unknown cell %q", s)
	}
	return nil
}

// BoardSize is the number of cells on a board.
const BoardSize = 9

// Board is a 3x3 grid stored row by row.
type Board [BoardSize]Cell

// Line is three board indices.
type Line [3]int

// WinningLines are the rows, columns and diagonals in the order they are
// checked.
var WinningLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Status is the state of a game.
type Status string

// Status values. Won and Tied are terminal.
const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusTied       Status = "tied"
)

// Outcome is the result of evaluating a board.
type Outcome struct {
	Status Status `json:"status"`
	Winner Cell   `json:"winner,omitempty"`
	Line   *Line  `json:"line,omitempty"`
}

// Finished reports whether the outcome is terminal.
func (o Outcome) Finished() bool {
	return o.Status != StatusInProgress
}

// Message returns the text shown to players for a finished game.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusWon:
		return o.Winner.String() + " won"
	case StatusTied:
		return "Game Tied"
	default:
		return ""
	}
}

// Evaluate returns Won for the first winning line with three equal non-empty
// cells, Tied for a full board without one, and InProgress otherwise.
func Evaluate(b Board) Outcome {
	for _, line := range WinningLines {
		first := b[line[0]]
		if first != Empty && first == b[line[1]] && first == b[line[2]] {
			l := line
			return Outcome{Status: StatusWon, Winner: first, Line: &l}
		}
	}
	for _, c := range b {
		if c == Empty {
			return Outcome{Status: StatusInProgress}
		}
	}
	return Outcome{Status: StatusTied}
}
