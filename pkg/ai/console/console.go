// Package console implements a terminal player reading moves from
// standard input.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/froglander/connect-four/pkg/game"
)

// Player prompts a human for a column on every turn.
type Player struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a console player on stdin/stdout.
func New() *Player {
	return NewIO(os.Stdin, os.Stdout)
}

// NewIO returns a console player on custom streams.
func NewIO(in io.Reader, out io.Writer) *Player {
	return &Player{in: bufio.NewScanner(in), out: out}
}

// Move implements game.Player. Invalid input is rejected and the
// prompt repeated. When input runs out, the first possible move is
// played so a closed stdin cannot hang the game.
func (p *Player) Move(board *game.Board, me game.Team) int {
	fmt.Fprintf(p.out, "You play %s. Current board:\n%s\n", me, board)
	fmt.Fprintln(p.out, "0 | 1 | 2 | 3 | 4 | 5 | 6")

	possible := board.PossibleMoves()
	for {
		fmt.Fprint(p.out, "Enter column to place your tile in: ")
		if !p.in.Scan() {
			return possible[0]
		}
		column, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err == nil && contains(possible, column) {
			return column
		}
		fmt.Fprintln(p.out, "Invalid move, try again!")
	}
}

func contains(moves []int, column int) bool {
	for _, m := range moves {
		if m == column {
			return true
		}
	}
	return false
}
