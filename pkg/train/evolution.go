package train

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/froglander/connect-four/pkg/ai/neural"
	"github.com/froglander/connect-four/pkg/game"
)

// EvolutionConfig parameterizes the population trainer.
type EvolutionConfig struct {
	// PopulationMax is the population size grown before evaluation.
	PopulationMax int
	// PopulationMin is the number of survivors after selection.
	PopulationMin int
	// GenerateNew is the probability of injecting a fresh model
	// instead of breeding.
	GenerateNew float64
	// MutationProbability is the chance a bred child is mutated.
	MutationProbability float64
	// MutationStd is the gaussian mutation standard deviation.
	MutationStd float64
}

// EvolutionTrainer trains a population by breeding, mutation and
// selection.
type EvolutionTrainer struct {
	config     EvolutionConfig
	population []neural.Model
	initFn     func() neural.Model
	evaluator  Evaluator
	rng        *rand.Rand
}

// NewEvolutionTrainer creates a population trainer. initFn produces
// fresh random models; the initial population is grown lazily from
// it.
func NewEvolutionTrainer(config EvolutionConfig, initFn func() neural.Model, evaluator Evaluator) (*EvolutionTrainer, error) {
	if config.PopulationMin <= 1 || config.PopulationMax < config.PopulationMin {
		return nil, fmt.Errorf("evolution trainer: need population max >= min > 1")
	}
	return &EvolutionTrainer{
		config:    config,
		initFn:    initFn,
		evaluator: evaluator,
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

// Population returns the current population, best first after a
// training step.
func (t *EvolutionTrainer) Population() []neural.Model {
	return t.population
}

// Breed crosses two parents with a uniform per-parameter mask: each
// child parameter comes from either parent with equal probability.
func Breed(a, b neural.Model, rng *rand.Rand) neural.Model {
	paramsA := Flatten(a.Weights())
	paramsB := Flatten(b.Weights())
	child := make([]float64, len(paramsA))
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = paramsA[i]
		} else {
			child[i] = paramsB[i]
		}
	}
	return a.WithWeights(Unflatten(a.Weights(), child))
}

// Mutate adds gaussian noise to every parameter of the model.
func (t *EvolutionTrainer) Mutate(model neural.Model) neural.Model {
	weights := model.Weights()
	noise := make([]float64, CountParams(weights))
	for i := range noise {
		noise[i] = t.rng.NormFloat64() * t.config.MutationStd
	}
	return model.WithWeights(AddFlat(weights, noise))
}

// generatePopulation grows the population to PopulationMax via fresh
// models, breeding and mutation.
func (t *EvolutionTrainer) generatePopulation() {
	for len(t.population) < t.config.PopulationMin {
		t.population = append(t.population, t.initFn())
	}

	for len(t.population) < t.config.PopulationMax {
		if t.rng.Float64() < t.config.GenerateNew {
			t.population = append(t.population, t.initFn())
			continue
		}
		a := t.population[t.rng.Intn(len(t.population))]
		b := t.population[t.rng.Intn(len(t.population))]
		child := Breed(a, b, t.rng)
		if t.rng.Float64() < t.config.MutationProbability {
			child = t.Mutate(child)
		}
		t.population = append(t.population, child)
	}
}

// TrainStep grows the population, evaluates it and keeps the
// PopulationMin best models.
func (t *EvolutionTrainer) TrainStep() error {
	t.generatePopulation()

	players := make([]game.Player, len(t.population))
	for i, m := range t.population {
		players[i] = m
	}
	scores, err := t.evaluator.Evaluate(players)
	if err != nil {
		return fmt.Errorf("evolution trainer: %w", err)
	}

	order := make([]int, len(t.population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	selected := make([]neural.Model, 0, t.config.PopulationMin)
	for _, idx := range order[:t.config.PopulationMin] {
		selected = append(selected, t.population[idx])
	}
	t.population = selected
	return nil
}
