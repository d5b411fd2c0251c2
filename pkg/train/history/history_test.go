package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestRunRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.StartRun(ctx, Run{
		ModelPath:    "model.json",
		Samples:      100,
		Std:          0.025,
		LearningRate: 0.05,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	run, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "model.json", run.ModelPath)
	assert.Equal(t, 100, run.Samples)
	assert.InDelta(t, 0.025, run.Std, 1e-12)
	assert.False(t, run.StartedAt.IsZero())
}

func TestLastRunEmpty(t *testing.T) {
	store := openTestStore(t)
	_, err := store.LastRun(context.Background())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestIterationsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.StartRun(ctx, Run{ModelPath: "m.json", Samples: 10, Std: 0.1, LearningRate: 0.01})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.RecordIteration(ctx, Iteration{
			RunID:        id,
			Iteration:    i,
			RandomScore:  float64(i) / 10,
			MinimaxScore: -0.5,
			Duration:     2 * time.Second,
		}))
	}

	iterations, err := store.Iterations(ctx, id)
	require.NoError(t, err)
	require.Len(t, iterations, 3)
	assert.Equal(t, 1, iterations[0].Iteration)
	assert.InDelta(t, 0.3, iterations[2].RandomScore, 1e-12)
	assert.Equal(t, 2*time.Second, iterations[1].Duration)

	// Unknown runs have no iterations.
	empty, err := store.Iterations(ctx, id+1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDuplicateIterationRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.StartRun(ctx, Run{ModelPath: "m.json"})
	require.NoError(t, err)
	require.NoError(t, store.RecordIteration(ctx, Iteration{RunID: id, Iteration: 1}))
	assert.Error(t, store.RecordIteration(ctx, Iteration{RunID: id, Iteration: 1}))
}
