package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froglander/connect-four/pkg/ai/neural"
	"github.com/froglander/connect-four/pkg/game"
)

// fakeModel is a neural.Model with inspectable parameters and trivial
// play behavior, used to test trainers without network inference.
type fakeModel struct {
	weights [][][]float64
}

func newFakeModel(params ...float64) *fakeModel {
	neuron := make([]float64, len(params))
	copy(neuron, params)
	return &fakeModel{weights: [][][]float64{{neuron}}}
}

func (f *fakeModel) Move(board *game.Board, _ game.Team) int {
	return board.PossibleMoves()[0]
}

func (f *fakeModel) Weights() [][][]float64 {
	out := make([][][]float64, len(f.weights))
	for l, layer := range f.weights {
		out[l] = make([][]float64, len(layer))
		for n, neuron := range layer {
			out[l][n] = append([]float64(nil), neuron...)
		}
	}
	return out
}

func (f *fakeModel) WithWeights(weights [][][]float64) neural.Model {
	return &fakeModel{weights: weights}
}

func (f *fakeModel) param0() float64 {
	return f.weights[0][0][0]
}

// param0Evaluator scores every fake model by its first parameter.
type param0Evaluator struct{}

func (param0Evaluator) Evaluate(models []game.Player) ([]float64, error) {
	scores := make([]float64, len(models))
	for i, m := range models {
		scores[i] = m.(*fakeModel).param0()
	}
	return scores, nil
}

func TestDispositionReproducible(t *testing.T) {
	trainer := NewESTrainer(newFakeModel(0, 0, 0), 0.5, 4, param0Evaluator{}, NewSGD(0.1, 0))

	a := trainer.disposition(99, 2, 3)
	b := trainer.disposition(99, 2, 3)
	assert.Equal(t, a, b)

	c := trainer.disposition(99, 3, 3)
	assert.NotEqual(t, a, c)
}

func TestESTrainStepClimbsScore(t *testing.T) {
	model := newFakeModel(0, 0, 0, 0)
	trainer := NewESTrainer(model, 0.1, 16, param0Evaluator{}, NewSGD(0.5, 0))
	trainer.seedFn = func() int64 { return 1234 }

	require.NoError(t, trainer.TrainStep())
	after := trainer.Model().(*fakeModel)

	// Scores grow with parameter 0, so the estimated gradient must
	// push parameter 0 up.
	assert.Greater(t, after.param0(), 0.0)
}

func TestESTrainStepRejectsZeroSamples(t *testing.T) {
	trainer := NewESTrainer(newFakeModel(0), 0.1, 0, param0Evaluator{}, NewSGD(0.1, 0))
	assert.Error(t, trainer.TrainStep())
}

func TestESTrainStepWithRealModel(t *testing.T) {
	if testing.Short() {
		t.Skip("plays evaluation games")
	}
	model := neural.NewValue(1)
	trainer := NewESTrainer(model, 0.05, 2, &League{Workers: 2}, NewSGD(0.05, 0.9))
	require.NoError(t, trainer.TrainStep())

	// One step must keep the parameter count stable.
	assert.Equal(t, CountParams(model.Weights()), CountParams(trainer.Model().Weights()))
}
