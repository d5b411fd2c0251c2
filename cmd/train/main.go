// Command train runs evolution-strategies training of the value
// model. It resumes from the model and optimizer files when they
// exist, checkpoints them periodically and records baseline scores in
// the history database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/froglander/connect-four/pkg/ai/minimax"
	"github.com/froglander/connect-four/pkg/ai/neural"
	"github.com/froglander/connect-four/pkg/game"
	"github.com/froglander/connect-four/pkg/train"
	"github.com/froglander/connect-four/pkg/train/history"
)

type config struct {
	ModelPath     string `env:"MODEL_PATH" envDefault:"model.json"`
	OptimizerPath string `env:"OPTIMIZER_PATH" envDefault:"optimizer.json"`
	HistoryPath   string `env:"HISTORY_PATH" envDefault:"history.db"`
}

type options struct {
	iterations    int
	samples       int
	std           float64
	learningRate  float64
	momentum      float64
	depth         int
	saveInterval  int
	baselineGames int
	workers       int
	bootstrapDir  string
	bootstrapIter int
	bootstrapLR   float64
}

func main() {
	var opts options
	flag.IntVar(&opts.iterations, "iterations", 10000, "Number of training iterations")
	flag.IntVar(&opts.samples, "samples", 100, "Mirrored sample pairs per iteration")
	flag.Float64Var(&opts.std, "std", 0.025, "Sampling standard deviation")
	flag.Float64Var(&opts.learningRate, "lr", 0.05, "SGD learning rate")
	flag.Float64Var(&opts.momentum, "momentum", 0.9, "SGD momentum")
	flag.IntVar(&opts.depth, "depth", neural.DefaultValueDepth, "Minimax depth the value model plays at")
	flag.IntVar(&opts.saveInterval, "save", 10, "Checkpoint every N iterations")
	flag.IntVar(&opts.baselineGames, "baseline-games", 500, "Games per side against the random baseline")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Evaluation worker count")
	flag.StringVar(&opts.bootstrapDir, "bootstrap-dir", "", "Directory of battle records to fit the fresh model on")
	flag.IntVar(&opts.bootstrapIter, "bootstrap-iterations", 10, "Supervised passes over the bootstrap records")
	flag.Float64Var(&opts.bootstrapLR, "bootstrap-lr", 0.01, "Supervised bootstrap learning rate")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse environment: %v", err)
	}

	if err := run(cfg, opts); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config, opts options) error {
	model := loadOrInitModel(cfg.ModelPath, opts.depth)
	optimizer := loadOrInitOptimizer(cfg.OptimizerPath, opts.learningRate, opts.momentum)

	if opts.bootstrapDir != "" {
		if err := bootstrap(model, opts); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	runID, err := store.StartRun(ctx, history.Run{
		ModelPath:    cfg.ModelPath,
		Samples:      opts.samples,
		Std:          opts.std,
		LearningRate: opts.learningRate,
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	trainer := train.NewESTrainer(model, opts.std, opts.samples,
		&train.League{Workers: opts.workers}, optimizer)
	baseline := &train.RandomBaseline{GamesPerSide: opts.baselineGames, Workers: opts.workers}

	fmt.Println("Starting training...")
	fmt.Println("- Iterations:", opts.iterations)
	fmt.Println("- Samples:", opts.samples)
	fmt.Println("- Std:", opts.std)
	fmt.Println("- Learning rate:", opts.learningRate)
	fmt.Println()

	for i := 1; i <= opts.iterations; i++ {
		stepStart := time.Now()
		if err := trainer.TrainStep(); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		stepTime := time.Since(stepStart)
		fmt.Printf("[%d/%d] Training step: %s\n", i, opts.iterations, stepTime.Round(time.Millisecond))

		if i%opts.saveInterval == 0 || i == opts.iterations {
			if err := checkpoint(trainer, cfg); err != nil {
				return err
			}
			fmt.Println("Model saved!")
		}

		randomScore, err := testRandom(baseline, trainer.Model())
		if err != nil {
			return fmt.Errorf("iteration %d: random baseline: %w", i, err)
		}
		minimaxScore, err := testMinimax(trainer.Model())
		if err != nil {
			return fmt.Errorf("iteration %d: minimax baseline: %w", i, err)
		}
		fmt.Printf("Performance score: %.3f | Minimax performance: %.1f\n\n", randomScore, minimaxScore)

		if err := store.RecordIteration(ctx, history.Iteration{
			RunID:        runID,
			Iteration:    i,
			RandomScore:  randomScore,
			MinimaxScore: minimaxScore,
			Duration:     stepTime,
		}); err != nil {
			return fmt.Errorf("iteration %d: record history: %w", i, err)
		}
	}

	return nil
}

// bootstrap fits the value model on saved battle records before the
// evolution-strategies loop. Policy models have no supervised target
// here and skip the phase.
func bootstrap(model neural.Model, opts options) error {
	value, ok := model.(*neural.Value)
	if !ok {
		fmt.Println("Model is not a value model, skipping bootstrap")
		return nil
	}
	records, err := loadRecords(opts.bootstrapDir)
	if err != nil {
		return err
	}
	fmt.Printf("Fitting on %d records from %s\n", len(records), opts.bootstrapDir)
	return value.FitRecords(records, opts.bootstrapLR, opts.bootstrapIter)
}

// loadRecords reads every record file the battle command wrote into
// dir.
func loadRecords(dir string) ([]game.Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no record files in %s", dir)
	}
	records := make([]game.Record, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var record game.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// loadOrInitModel resumes from the model file or starts fresh.
func loadOrInitModel(path string, depth int) neural.Model {
	model, err := neural.LoadModel(path)
	if err != nil {
		fmt.Println("Failed loading model:", err)
		fmt.Println("Starting with new model")
		return neural.NewValue(depth)
	}
	return model
}

// loadOrInitOptimizer resumes from the optimizer file or starts
// fresh.
func loadOrInitOptimizer(path string, learningRate, momentum float64) *train.SGD {
	optimizer, err := train.LoadSGD(path)
	if err != nil {
		fmt.Println("Failed loading optimizer:", err)
		fmt.Println("Starting with new optimizer")
		return train.NewSGD(learningRate, momentum)
	}
	return optimizer
}

func checkpoint(trainer *train.ESTrainer, cfg config) error {
	if err := neural.SaveModel(trainer.Model(), cfg.ModelPath); err != nil {
		return fmt.Errorf("checkpoint model: %w", err)
	}
	sgd, ok := trainer.Optimizer().(*train.SGD)
	if !ok {
		return nil
	}
	if err := sgd.Save(cfg.OptimizerPath); err != nil {
		return fmt.Errorf("checkpoint optimizer: %w", err)
	}
	return nil
}

// testRandom measures the model against the random baseline.
func testRandom(baseline *train.RandomBaseline, model neural.Model) (float64, error) {
	scores, err := baseline.Evaluate([]game.Player{model})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// testMinimax plays one game per side against the heuristic minimax
// player and averages the outcome.
func testMinimax(model neural.Model) (float64, error) {
	opponent := minimax.NewHeuristic1(5)
	score := 0.0

	g, err := game.NewGame(model, opponent)
	if err != nil {
		return 0, err
	}
	record, err := g.Run()
	if err != nil {
		return 0, err
	}
	switch record.Result.Winner {
	case game.TeamX:
		score++
	case game.TeamO:
		score--
	}

	g, err = game.NewGame(opponent, model)
	if err != nil {
		return 0, err
	}
	record, err = g.Run()
	if err != nil {
		return 0, err
	}
	switch record.Result.Winner {
	case game.TeamX:
		score--
	case game.TeamO:
		score++
	}

	return score / 2, nil
}
