package train

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/froglander/connect-four/pkg/ai/random"
	"github.com/froglander/connect-four/pkg/game"
)

// Evaluator scores a population of candidate models. Higher is
// better; scores are only compared within one call.
type Evaluator interface {
	Evaluate(models []game.Player) ([]float64, error)
}

// League evaluates a population by a full round robin: every ordered
// pairing plays one game, the winner gains a point and the loser
// loses one. Games run on a worker pool.
type League struct {
	// Workers is the pool size; 0 means GOMAXPROCS.
	Workers int
}

type matchup struct {
	x, o int
}

// lockedPlayer serializes Move calls. Network forward passes mutate
// scratch state, so one model playing in two league games at once
// must not run both moves concurrently.
type lockedPlayer struct {
	mu     sync.Mutex
	player game.Player
}

func (lp *lockedPlayer) Move(board *game.Board, me game.Team) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.player.Move(board, me)
}

// Evaluate implements Evaluator.
func (l *League) Evaluate(models []game.Player) ([]float64, error) {
	locked := make([]game.Player, len(models))
	for i, m := range models {
		locked[i] = &lockedPlayer{player: m}
	}

	tasks := make(chan matchup, len(models)*len(models))
	for i := range models {
		for j := range models {
			tasks <- matchup{x: i, o: j}
		}
	}
	close(tasks)

	scores := make([]float64, len(models))
	var mu sync.Mutex
	var firstErr error

	var wg sync.WaitGroup
	for w := 0; w < l.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range tasks {
				record, err := playGame(locked[m.x], locked[m.o])
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					switch record.Result.Winner {
					case game.TeamX:
						scores[m.x]++
						scores[m.o]--
					case game.TeamO:
						scores[m.x]--
						scores[m.o]++
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return scores, nil
}

func (l *League) workers() int {
	if l.Workers > 0 {
		return l.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// RandomBaseline evaluates every model by a fixed number of games
// against the random player on each side. Scores land in [-1, 1].
type RandomBaseline struct {
	// GamesPerSide is the number of games per color; 0 means 500, the
	// trainer's default baseline volume.
	GamesPerSide int
	// Workers is the pool size; 0 means GOMAXPROCS.
	Workers int
}

// Evaluate implements Evaluator.
func (r *RandomBaseline) Evaluate(models []game.Player) ([]float64, error) {
	scores := make([]float64, len(models))
	errs := make([]error, len(models))

	tasks := make(chan int, len(models))
	for i := range models {
		tasks <- i
	}
	close(tasks)

	var wg sync.WaitGroup
	for w := 0; w < r.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				scores[i], errs[i] = r.score(models[i])
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// score plays the model against the random baseline on both sides and
// returns the mean game outcome.
func (r *RandomBaseline) score(model game.Player) (float64, error) {
	games := r.GamesPerSide
	if games <= 0 {
		games = 500
	}

	score := 0.0
	for i := 0; i < games; i++ {
		record, err := playGame(random.New(), model)
		if err != nil {
			return 0, err
		}
		switch record.Result.Winner {
		case game.TeamX:
			score--
		case game.TeamO:
			score++
		}
	}
	for i := 0; i < games; i++ {
		record, err := playGame(model, random.New())
		if err != nil {
			return 0, err
		}
		switch record.Result.Winner {
		case game.TeamX:
			score++
		case game.TeamO:
			score--
		}
	}
	return score / float64(2*games), nil
}

func (r *RandomBaseline) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func playGame(playerX, playerO game.Player) (game.Record, error) {
	g, err := game.NewGame(playerX, playerO)
	if err != nil {
		return game.Record{}, fmt.Errorf("set up evaluation game: %w", err)
	}
	record, err := g.Run()
	if err != nil {
		return game.Record{}, fmt.Errorf("run evaluation game: %w", err)
	}
	return record, nil
}
