// Package game implements the connect four rules, keeping it simple
// and fast to simulate or run games between arbitrary players.
package game

import "fmt"

// Game runs a single match between two players. X always moves first.
type Game struct {
	board   Board
	playerX Player
	playerO Player
}

// Record is the replayable log of a finished game: the columns played
// in order, starting with X's first move, and the final result.
type Record struct {
	Moves  []int      `json:"moves"`
	Result GameResult `json:"result"`
}

// NewGame creates a game between the two players.
func NewGame(playerX, playerO Player) (*Game, error) {
	if playerX == nil || playerO == nil {
		return nil, ErrMissingPlayer
	}
	return &Game{playerX: playerX, playerO: playerO}, nil
}

// Board returns the current position.
func (g *Game) Board() *Board {
	return &g.board
}

// Run plays the game to completion, alternating between the players.
// A player returning an impossible move aborts the game with an
// error.
func (g *Game) Run() (Record, error) {
	record := Record{Moves: make([]int, 0, Width*Height)}
	for {
		move := g.playerX.Move(&g.board, TeamX)
		if err := g.board.Drop(move, TeamX); err != nil {
			return record, fmt.Errorf("player X move %d: %w", move, err)
		}
		record.Moves = append(record.Moves, move)
		if result, over := g.board.ResultOnChange(move); over {
			record.Result = result
			return record, nil
		}

		move = g.playerO.Move(&g.board, TeamO)
		if err := g.board.Drop(move, TeamO); err != nil {
			return record, fmt.Errorf("player O move %d: %w", move, err)
		}
		record.Moves = append(record.Moves, move)
		if result, over := g.board.ResultOnChange(move); over {
			record.Result = result
			return record, nil
		}
	}
}
