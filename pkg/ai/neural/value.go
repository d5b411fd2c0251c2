package neural

import (
	deep "github.com/patrikeh/go-deep"

	"github.com/froglander/connect-four/pkg/ai/minimax"
	"github.com/froglander/connect-four/pkg/game"
)

// DefaultValueDepth is the minimax depth value models play at.
const DefaultValueDepth = 4

// valueLayout are the hidden layers plus the single-score output.
var valueLayout = []int{64, 32, 1}

// Value is a position-evaluation model. It plays by running minimax
// with the network prediction as heuristic.
type Value struct {
	network *deep.Neural
	depth   int
}

// NewValue creates a value model with fresh random weights.
func NewValue(depth int) *Value {
	network := deep.NewNeural(&deep.Config{
		Inputs:     featureSize,
		Layout:     valueLayout,
		Activation: deep.ActivationTanh,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.5, 0.0),
		Bias:       true,
	})
	return &Value{network: network, depth: depth}
}

// Depth returns the minimax depth the model plays at.
func (v *Value) Depth() int {
	return v.depth
}

// Predict scores the position for team me. 0 is an estimated draw,
// positive values favor me.
func (v *Value) Predict(board *game.Board, me game.Team) float64 {
	return v.network.Predict(boardFeatures(board, me))[0]
}

// Move implements game.Player via minimax over the learned
// evaluation.
func (v *Value) Move(board *game.Board, me game.Team) int {
	search := minimax.New(v.depth, v.Predict)
	return search.Move(board, me)
}

// Network exposes the underlying go-deep network for supervised
// updates.
func (v *Value) Network() *deep.Neural {
	return v.network
}

// Weights implements Model.
func (v *Value) Weights() [][][]float64 {
	return v.network.Dump().Weights
}

// WithWeights implements Model.
func (v *Value) WithWeights(weights [][][]float64) Model {
	clone := NewValue(v.depth)
	clone.network.ApplyWeights(weights)
	return clone
}
