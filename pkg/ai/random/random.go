// Package random implements a player choosing uniformly among the
// possible moves. It is the training baseline opponent.
package random

import (
	"math/rand"

	"github.com/froglander/connect-four/pkg/game"
)

// Player picks a random possible column each turn.
type Player struct {
	rng *rand.Rand
}

// New returns a random player seeded from the shared source.
func New() *Player {
	return &Player{}
}

// NewSeeded returns a random player with its own deterministic source.
func NewSeeded(seed int64) *Player {
	return &Player{rng: rand.New(rand.NewSource(seed))}
}

// Move implements game.Player.
func (p *Player) Move(board *game.Board, _ game.Team) int {
	moves := board.PossibleMoves()
	if p.rng != nil {
		return moves[p.rng.Intn(len(moves))]
	}
	return moves[rand.Intn(len(moves))]
}
