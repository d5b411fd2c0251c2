// Package minimax implements a fixed-depth minimax player with a
// pluggable position heuristic.
package minimax

import (
	"math"

	"github.com/froglander/connect-four/pkg/game"
)

// Heuristic scores a board position for team me. 0 is an estimated
// draw, positive values estimated wins, negative values estimated
// losses.
type Heuristic func(board *game.Board, me game.Team) float64

// Player searches the game tree to a fixed depth and falls back to
// the heuristic at the horizon. Terminal positions inside the search
// are scored ±Inf/0 immediately.
type Player struct {
	depth     int
	heuristic Heuristic
}

// New creates a minimax player with a custom heuristic.
func New(depth int, heuristic Heuristic) *Player {
	return &Player{depth: depth, heuristic: heuristic}
}

// NewHeuristic1 creates a minimax player using the board's built-in
// neighborhood heuristic.
func NewHeuristic1(depth int) *Player {
	return New(depth, func(board *game.Board, me game.Team) float64 {
		return board.Heuristic1(me)
	})
}

// Move implements game.Player.
func (p *Player) Move(board *game.Board, me game.Team) int {
	bestMove := -1
	bestValue := math.Inf(-1)
	for _, column := range board.PossibleMoves() {
		test := *board
		if err := test.Drop(column, me); err != nil {
			continue
		}

		var value float64
		if result, over := test.ResultOnChange(column); over {
			value = terminalValue(result, me)
		} else {
			value = p.minValue(&test, me, 1)
		}

		if bestMove < 0 || value > bestValue {
			bestMove = column
			bestValue = value
		}
	}
	return bestMove
}

// maxValue is our turn: take the best of our moves.
func (p *Player) maxValue(board *game.Board, me game.Team, depth int) float64 {
	if depth+1 >= p.depth {
		return p.heuristic(board, me)
	}

	best := math.Inf(-1)
	first := true
	for _, column := range board.PossibleMoves() {
		test := *board
		if err := test.Drop(column, me); err != nil {
			continue
		}

		var value float64
		if result, over := test.ResultOnChange(column); over {
			value = terminalValue(result, me)
		} else {
			value = p.minValue(&test, me, depth+1)
		}

		if first || value > best {
			best = value
			first = false
		}
	}
	if first {
		return p.heuristic(board, me)
	}
	return best
}

// minValue is the opponent's turn: assume they minimize our value.
func (p *Player) minValue(board *game.Board, me game.Team, depth int) float64 {
	if depth+1 >= p.depth {
		return p.heuristic(board, me)
	}

	worst := math.Inf(1)
	first := true
	for _, column := range board.PossibleMoves() {
		test := *board
		if err := test.Drop(column, me.Other()); err != nil {
			continue
		}

		var value float64
		if result, over := test.ResultOnChange(column); over {
			value = terminalValue(result, me)
		} else {
			value = p.maxValue(&test, me, depth+1)
		}

		if first || value < worst {
			worst = value
			first = false
		}
	}
	if first {
		return p.heuristic(board, me)
	}
	return worst
}

func terminalValue(result game.GameResult, me game.Team) float64 {
	switch result.Winner {
	case me:
		return math.Inf(1)
	case game.TeamNone:
		return 0
	default:
		return math.Inf(-1)
	}
}
