package game

import "errors"

var (
	// ErrColumnOutOfRange is returned when a move addresses a column
	// outside the board.
	ErrColumnOutOfRange = errors.New("column out of range")

	// ErrColumnFull is returned when a tile is dropped into a column
	// with no open cell.
	ErrColumnFull = errors.New("column already full")

	// ErrMissingPlayer is returned when a game is created without both
	// players.
	ErrMissingPlayer = errors.New("both players are required")
)
