package neural

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froglander/connect-four/pkg/ai/random"
	"github.com/froglander/connect-four/pkg/game"
)

func TestFitRecordsMovesPredictions(t *testing.T) {
	records := playRandomRecords(t, 40)
	model := NewValue(1)

	var b game.Board
	require.NoError(t, b.Drop(3, game.TeamX))
	before := model.Predict(&b, game.TeamO)

	require.NoError(t, model.FitRecords(records, 0.01, 5))

	after := model.Predict(&b, game.TeamO)
	assert.NotEqual(t, before, after, "fitting should change predictions")
}

func TestFitRecordsErrors(t *testing.T) {
	model := NewValue(1)

	err := model.FitRecords(nil, 0.01, 5)
	assert.Error(t, err, "no examples")

	err = model.FitRecords(playRandomRecords(t, 1), 0.01, 0)
	assert.Error(t, err, "non-positive iterations")

	bad := game.Record{Moves: []int{game.Width}}
	err = model.FitRecords([]game.Record{bad}, 0.01, 1)
	assert.Error(t, err, "unreplayable record")
}

func playRandomRecords(t *testing.T, n int) []game.Record {
	t.Helper()
	records := make([]game.Record, 0, n)
	for i := 0; i < n; i++ {
		g, err := game.NewGame(random.NewSeeded(int64(i)), random.NewSeeded(int64(i)+1000))
		require.NoError(t, err)
		record, err := g.Run()
		require.NoError(t, err)
		records = append(records, record)
	}
	// Shuffle so both results and openings mix.
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	return records
}
