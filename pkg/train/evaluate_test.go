package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froglander/connect-four/pkg/ai/minimax"
	"github.com/froglander/connect-four/pkg/ai/random"
	"github.com/froglander/connect-four/pkg/game"
)

// firstMovePlayer always plays the lowest open column.
type firstMovePlayer struct{}

func (firstMovePlayer) Move(board *game.Board, _ game.Team) int {
	return board.PossibleMoves()[0]
}

func TestLeagueIsZeroSum(t *testing.T) {
	models := []game.Player{
		firstMovePlayer{},
		random.NewSeeded(1),
		random.NewSeeded(2),
	}
	league := &League{Workers: 2}
	scores, err := league.Evaluate(models)
	require.NoError(t, err)
	require.Len(t, scores, len(models))

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestLeagueSingleModel(t *testing.T) {
	league := &League{Workers: 1}
	scores, err := league.Evaluate([]game.Player{firstMovePlayer{}})
	require.NoError(t, err)
	// The self-game hands out +1 and -1 to the same model.
	assert.Equal(t, []float64{0}, scores)
}

func TestRandomBaselineFavorsSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("plays full games")
	}
	baseline := &RandomBaseline{GamesPerSide: 15, Workers: 2}
	scores, err := baseline.Evaluate([]game.Player{minimax.NewHeuristic1(3)})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Greater(t, scores[0], 0.5, "minimax should dominate the random baseline")
}

func TestRandomBaselineBounds(t *testing.T) {
	baseline := &RandomBaseline{GamesPerSide: 5, Workers: 2}
	scores, err := baseline.Evaluate([]game.Player{random.New(), random.New()})
	require.NoError(t, err)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
