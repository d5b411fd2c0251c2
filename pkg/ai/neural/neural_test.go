package neural

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froglander/connect-four/pkg/game"
)

func TestBoardFeaturesPerspective(t *testing.T) {
	var b game.Board
	require.NoError(t, b.Drop(0, game.TeamX))
	require.NoError(t, b.Drop(0, game.TeamO))

	forX := boardFeatures(&b, game.TeamX)
	forO := boardFeatures(&b, game.TeamO)
	require.Len(t, forX, featureSize)

	// Column 0 occupies the first Height entries, bottom first.
	assert.Equal(t, 1.0, forX[0])
	assert.Equal(t, -1.0, forX[1])
	assert.Equal(t, -1.0, forO[0])
	assert.Equal(t, 1.0, forO[1])
	for i := 2; i < featureSize; i++ {
		assert.Zero(t, forX[i])
	}
}

func TestValuePredictIsFinite(t *testing.T) {
	model := NewValue(2)
	var b game.Board
	score := model.Predict(&b, game.TeamX)
	assert.False(t, score != score, "prediction is NaN")
}

func TestValueMoveIsPossible(t *testing.T) {
	model := NewValue(2)
	var b game.Board
	// Fill a few columns so not every move is open.
	for i := 0; i < game.Height; i++ {
		require.NoError(t, b.Drop(0, game.TeamX))
	}
	move := model.Move(&b, game.TeamO)
	assert.Contains(t, b.PossibleMoves(), move)
}

func TestPolicyMoveSkipsFullColumns(t *testing.T) {
	model := NewPolicy()
	var b game.Board
	// Leave only column 6 playable.
	for col := 0; col < game.Width-1; col++ {
		team := game.TeamX
		for i := 0; i < game.Height; i++ {
			require.NoError(t, b.Drop(col, team))
			team = team.Other()
		}
	}
	assert.Equal(t, 6, model.Move(&b, game.TeamX))
}

func TestValueRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.json")
	model := NewValue(3)
	require.NoError(t, SaveModel(model, path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	value, ok := loaded.(*Value)
	require.True(t, ok, "loaded model is %T, want *Value", loaded)
	assert.Equal(t, 3, value.Depth())

	var b game.Board
	require.NoError(t, b.Drop(3, game.TeamX))
	assert.InDelta(t, model.Predict(&b, game.TeamO), value.Predict(&b, game.TeamO), 1e-9)
}

func TestPolicyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	model := NewPolicy()
	require.NoError(t, SaveModel(model, path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	policy, ok := loaded.(*Policy)
	require.True(t, ok, "loaded model is %T, want *Policy", loaded)

	var b game.Board
	want := model.Predict(&b, game.TeamX)
	got := policy.Predict(&b, game.TeamX)
	require.Len(t, got, game.Width)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestLoadModelErrors(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWithWeightsIsIndependent(t *testing.T) {
	model := NewValue(2)
	weights := model.Weights()

	// Zero a copy of the weights and derive a new model from them.
	zeroed := make([][][]float64, len(weights))
	for i, layer := range weights {
		zeroed[i] = make([][]float64, len(layer))
		for j, neuron := range layer {
			zeroed[i][j] = make([]float64, len(neuron))
		}
	}
	clone := model.WithWeights(zeroed)

	var b game.Board
	require.NoError(t, b.Drop(3, game.TeamX))
	cloneValue, ok := clone.(*Value)
	require.True(t, ok)
	assert.Zero(t, cloneValue.Predict(&b, game.TeamO))

	// The original keeps its weights.
	after := model.Weights()
	assert.Equal(t, weights, after)
}
