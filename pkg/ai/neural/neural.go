// Package neural implements players backed by go-deep feed-forward
// networks: a value model used as minimax heuristic and a policy
// model picking a column directly. Networks are saved to and loaded
// from JSON model files, which is what the trainer produces and the
// play binary consumes.
package neural

import (
	"github.com/froglander/connect-four/pkg/game"
)

// featureSize is the length of the board encoding fed to the
// networks: one input per cell.
const featureSize = game.Width * game.Height

// Model is a neural player whose parameters trainers can read and
// replace. WithWeights returns an independent copy of the model, the
// receiver is left untouched.
type Model interface {
	game.Player
	Weights() [][][]float64
	WithWeights(weights [][][]float64) Model
}

// boardFeatures encodes a position from the perspective of team me:
// empty cells are 0, own tiles +1, opposing tiles -1.
func boardFeatures(board *game.Board, me game.Team) []float64 {
	features := make([]float64, featureSize)
	i := 0
	for x := 0; x < game.Width; x++ {
		for y := 0; y < game.Height; y++ {
			switch board.Cell(x, y) {
			case me:
				features[i] = 1
			case game.TeamNone:
				features[i] = 0
			default:
				features[i] = -1
			}
			i++
		}
	}
	return features
}
