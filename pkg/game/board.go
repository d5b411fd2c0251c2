package game

import (
	"math"
	"strings"
)

const (
	// Width is the number of columns on the board.
	Width = 7
	// Height is the number of rows in each column.
	Height = 6
)

// Team identifies one of the two sides. TeamNone marks an empty cell
// and a drawn result.
type Team int8

const (
	TeamNone Team = iota
	TeamX
	TeamO
)

// Other returns the opposing team.
func (t Team) Other() Team {
	switch t {
	case TeamX:
		return TeamO
	case TeamO:
		return TeamX
	default:
		return TeamNone
	}
}

func (t Team) String() string {
	switch t {
	case TeamX:
		return "X"
	case TeamO:
		return "O"
	default:
		return " "
	}
}

// GameResult is the outcome of a finished game. Winner is TeamNone
// for a draw.
type GameResult struct {
	Winner Team `json:"winner"`
}

// Board is a connect four position. Cells are stored column-major,
// cells[x*Height+y], with y = 0 the bottom row. The zero value is an
// empty board ready to play; copying the struct copies the position.
type Board struct {
	cells [Width * Height]Team
}

// Cell returns the team occupying column x, row y (bottom row is 0).
func (b *Board) Cell(x, y int) Team {
	return b.cells[x*Height+y]
}

// Drop puts a tile of team into the given column. The tile falls to
// the lowest empty row. The board is unchanged on error.
func (b *Board) Drop(column int, team Team) error {
	if column < 0 || column >= Width {
		return ErrColumnOutOfRange
	}
	for y := 0; y < Height; y++ {
		if b.cells[column*Height+y] == TeamNone {
			b.cells[column*Height+y] = team
			return nil
		}
	}
	return ErrColumnFull
}

// PossibleMoves returns the columns that still have an open cell, in
// ascending order.
func (b *Board) PossibleMoves() []int {
	moves := make([]int, 0, Width)
	for x := 0; x < Width; x++ {
		if b.cells[x*Height+Height-1] == TeamNone {
			moves = append(moves, x)
		}
	}
	return moves
}

// WhoseTurn returns the team to move. X moves first; the turn follows
// from the number of placed tiles.
func (b *Board) WhoseTurn() Team {
	placed := 0
	for _, c := range b.cells {
		if c != TeamNone {
			placed++
		}
	}
	if placed%2 == 0 {
		return TeamX
	}
	return TeamO
}

// Result scans the whole board for four in a row. It returns the
// result and true once the game is over, and false while the game is
// still running. With multiple simultaneous winning lines (reachable
// only by mutating the board without checking in between) an
// arbitrary one wins.
func (b *Board) Result() (GameResult, bool) {
	// Vertical first, it iterates in storage order.
	for x := 0; x < Width; x++ {
		for y := 0; y < Height-3; y++ {
			if t := b.cells[x*Height+y]; t != TeamNone &&
				b.cells[x*Height+y+1] == t &&
				b.cells[x*Height+y+2] == t &&
				b.cells[x*Height+y+3] == t {
				return GameResult{Winner: t}, true
			}
		}
	}

	// Horizontal.
	for y := 0; y < Height; y++ {
		for x := 0; x < Width-3; x++ {
			if t := b.cells[x*Height+y]; t != TeamNone &&
				b.cells[(x+1)*Height+y] == t &&
				b.cells[(x+2)*Height+y] == t &&
				b.cells[(x+3)*Height+y] == t {
				return GameResult{Winner: t}, true
			}
		}
	}

	// Diagonal up-right.
	for x := 0; x < Width-3; x++ {
		for y := 0; y < Height-3; y++ {
			if t := b.cells[x*Height+y]; t != TeamNone &&
				b.cells[(x+1)*Height+y+1] == t &&
				b.cells[(x+2)*Height+y+2] == t &&
				b.cells[(x+3)*Height+y+3] == t {
				return GameResult{Winner: t}, true
			}
		}
	}

	// Diagonal up-left.
	for x := 3; x < Width; x++ {
		for y := 0; y < Height-3; y++ {
			if t := b.cells[x*Height+y]; t != TeamNone &&
				b.cells[(x-1)*Height+y+1] == t &&
				b.cells[(x-2)*Height+y+2] == t &&
				b.cells[(x-3)*Height+y+3] == t {
				return GameResult{Winner: t}, true
			}
		}
	}

	for _, c := range b.cells {
		if c == TeamNone {
			return GameResult{}, false
		}
	}
	return GameResult{Winner: TeamNone}, true
}

// ResultOnChange checks the result considering only lines through the
// topmost tile of the given column, which must be the most recent
// move. It is equivalent to Result for positions reached by regular
// play and much cheaper inside search.
func (b *Board) ResultOnChange(column int) (GameResult, bool) {
	y := -1
	for i := Height - 1; i >= 0; i-- {
		if b.cells[column*Height+i] != TeamNone {
			y = i
			break
		}
	}
	if y < 0 {
		return GameResult{}, false
	}
	team := b.cells[column*Height+y]

	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		run := 1
		run += b.runLength(column, y, d[0], d[1], team)
		run += b.runLength(column, y, -d[0], -d[1], team)
		if run >= 4 {
			return GameResult{Winner: team}, true
		}
	}

	for _, c := range b.cells {
		if c == TeamNone {
			return GameResult{}, false
		}
	}
	return GameResult{Winner: TeamNone}, true
}

// runLength counts consecutive tiles of team from (x, y) exclusive in
// direction (dx, dy).
func (b *Board) runLength(x, y, dx, dy int, team Team) int {
	n := 0
	for {
		x += dx
		y += dy
		if x < 0 || x >= Width || y < 0 || y >= Height {
			return n
		}
		if b.cells[x*Height+y] != team {
			return n
		}
		n++
	}
}

// Heuristic1 estimates the position value for team me. Terminal
// positions map to +Inf for a win, -Inf for a loss and 0 for a draw.
// Otherwise every tile is scored by its neighborhood: empty neighbors
// count 0.333, friendly ones 1, hostile ones -1.
func (b *Board) Heuristic1(me Team) float64 {
	if result, over := b.Result(); over {
		switch result.Winner {
		case me:
			return math.Inf(1)
		case TeamNone:
			return 0
		default:
			return math.Inf(-1)
		}
	}

	value := 0.0
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			team := b.cells[x*Height+y]
			if team == TeamNone {
				continue
			}
			surrounding := 0.0
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= Width || ny < 0 || ny >= Height {
						continue
					}
					switch b.cells[nx*Height+ny] {
					case TeamNone:
						surrounding += 0.333
					case team:
						surrounding += 1.0
					default:
						surrounding -= 1.0
					}
				}
			}
			if team == me {
				value += surrounding
			} else {
				value -= surrounding
			}
		}
	}
	return value
}

// String renders the board with the top row first, the way it is
// shown to a terminal player.
func (b *Board) String() string {
	var sb strings.Builder
	divider := strings.Repeat("----", Width)[:Width*4-3]
	sb.WriteString(divider)
	sb.WriteByte('\n')
	for y := Height - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			sb.WriteString(b.cells[x*Height+y].String())
			if x < Width-1 {
				sb.WriteString(" | ")
			}
		}
		sb.WriteByte('\n')
		sb.WriteString(divider)
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
