package neural

import (
	deep "github.com/patrikeh/go-deep"

	"github.com/froglander/connect-four/pkg/game"
)

// policyLayout are the hidden layers plus one output per column.
var policyLayout = []int{100, 50, game.Width}

// Policy is a move-selection model emitting a probability per column.
type Policy struct {
	network *deep.Neural
}

// NewPolicy creates a policy model with fresh random weights.
func NewPolicy() *Policy {
	network := deep.NewNeural(&deep.Config{
		Inputs:     featureSize,
		Layout:     policyLayout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeMultiClass,
		Weight:     deep.NewNormal(0.5, 0.0),
		Bias:       true,
	})
	return &Policy{network: network}
}

// Predict returns the column distribution for the position.
func (p *Policy) Predict(board *game.Board, me game.Team) []float64 {
	return p.network.Predict(boardFeatures(board, me))
}

// Move implements game.Player: the highest-probability column that is
// actually playable. Restricting to possible moves keeps a
// half-trained model from resigning the game by picking a full
// column.
func (p *Policy) Move(board *game.Board, me game.Team) int {
	probs := p.Predict(board, me)
	best := -1
	for _, column := range board.PossibleMoves() {
		if best < 0 || probs[column] > probs[best] {
			best = column
		}
	}
	return best
}

// Network exposes the underlying go-deep network for supervised
// updates.
func (p *Policy) Network() *deep.Neural {
	return p.network
}

// Weights implements Model.
func (p *Policy) Weights() [][][]float64 {
	return p.network.Dump().Weights
}

// WithWeights implements Model.
func (p *Policy) WithWeights(weights [][][]float64) Model {
	clone := NewPolicy()
	clone.network.ApplyWeights(weights)
	return clone
}
