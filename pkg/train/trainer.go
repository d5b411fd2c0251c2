// Package train implements model training: an evolution-strategies
// trainer with mirrored sampling, a population trainer with breeding
// and mutation, the optimizers driving them and the evaluators
// scoring candidate models.
package train

import (
	"fmt"
	"math/rand"

	"github.com/froglander/connect-four/pkg/ai/neural"
	"github.com/froglander/connect-four/pkg/game"
)

// ESTrainer trains a model by evolution strategies: sample gaussian
// parameter dispositions in mirrored pairs, score the resulting
// population, estimate a gradient from the score differences and feed
// it to the optimizer.
type ESTrainer struct {
	model     neural.Model
	std       float64
	samples   int
	evaluator Evaluator
	optimizer Optimizer
	seedFn    func() int64
}

// NewESTrainer creates a trainer for the model. std is the sampling
// standard deviation and samples the number of mirrored pairs per
// step.
func NewESTrainer(model neural.Model, std float64, samples int, evaluator Evaluator, optimizer Optimizer) *ESTrainer {
	return &ESTrainer{
		model:     model,
		std:       std,
		samples:   samples,
		evaluator: evaluator,
		optimizer: optimizer,
		seedFn:    rand.Int63,
	}
}

// Model returns the current model.
func (t *ESTrainer) Model() neural.Model {
	return t.model
}

// Optimizer returns the optimizer so its state can be checkpointed.
func (t *ESTrainer) Optimizer() Optimizer {
	return t.optimizer
}

// disposition reproduces the gaussian parameter offsets for pair i of
// a step. Population generation and gradient estimation call it with
// the same seed, which keeps the two in sync without storing the
// offsets of the whole population.
func (t *ESTrainer) disposition(seed int64, i, params int) []float64 {
	rng := rand.New(rand.NewSource(seed + int64(i)))
	out := make([]float64, params)
	for k := range out {
		out[k] = rng.NormFloat64() * t.std
	}
	return out
}

// TrainStep runs one ES iteration and updates the model in place.
func (t *ESTrainer) TrainStep() error {
	if t.samples <= 0 {
		return fmt.Errorf("es trainer: samples must be positive")
	}

	seed := t.seedFn()
	base := t.model.Weights()
	params := CountParams(base)

	population := make([]game.Player, 0, t.samples*2)
	for i := 0; i < t.samples; i++ {
		disposition := t.disposition(seed, i, params)
		population = append(population, t.model.WithWeights(AddFlat(base, disposition)))
		for k := range disposition {
			disposition[k] = -disposition[k]
		}
		population = append(population, t.model.WithWeights(AddFlat(base, disposition)))
	}

	scores, err := t.evaluator.Evaluate(population)
	if err != nil {
		return fmt.Errorf("es trainer: %w", err)
	}
	NormalizeScores(scores)

	gradient := make([]float64, params)
	for i := 0; i < t.samples; i++ {
		disposition := t.disposition(seed, i, params)
		weight := scores[i*2] - scores[i*2+1]
		for k := range gradient {
			gradient[k] += disposition[k] * weight
		}
	}
	scale := 1.0 / (2.0 * float64(t.samples) * t.std)
	for k := range gradient {
		// Invert so the optimizer descends towards higher scores.
		gradient[k] *= -scale
	}

	delta := t.optimizer.Step(gradient)
	t.model = t.model.WithWeights(AddFlat(base, delta))
	return nil
}
