package train

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Optimizer turns a gradient into a parameter delta.
type Optimizer interface {
	// Step consumes the gradient for one iteration and returns the
	// update to add to the parameters.
	Step(gradient []float64) []float64
}

// SGD is stochastic gradient descent with momentum.
type SGD struct {
	LearningRate float64   `json:"learning_rate"`
	Momentum     float64   `json:"momentum"`
	LastV        []float64 `json:"last_v"`
	Iterations   int       `json:"iterations"`
}

// NewSGD creates an SGD optimizer.
func NewSGD(learningRate, momentum float64) *SGD {
	return &SGD{LearningRate: learningRate, Momentum: momentum}
}

// Step implements Optimizer.
func (s *SGD) Step(gradient []float64) []float64 {
	if len(s.LastV) != len(gradient) {
		s.LastV = make([]float64, len(gradient))
	}

	delta := make([]float64, len(gradient))
	for i, g := range gradient {
		s.LastV[i] = s.LastV[i]*s.Momentum + g*(1-s.Momentum)
		delta[i] = -s.LearningRate * s.LastV[i]
	}
	s.Iterations++
	return delta
}

// Save writes the optimizer state to a JSON file.
func (s *SGD) Save(path string) error {
	return saveJSON(s, path)
}

// LoadSGD restores SGD state from a JSON file.
func LoadSGD(path string) (*SGD, error) {
	var s SGD
	if err := loadJSON(&s, path); err != nil {
		return nil, err
	}
	return &s, nil
}

// Adam is the Adam optimizer with bias correction.
type Adam struct {
	LearningRate float64   `json:"learning_rate"`
	Beta1        float64   `json:"beta1"`
	Beta2        float64   `json:"beta2"`
	Epsilon      float64   `json:"epsilon"`
	M            []float64 `json:"m"`
	V            []float64 `json:"v"`
	Iterations   int       `json:"iterations"`
}

// NewAdam creates an Adam optimizer with the standard defaults
// β1=0.9, β2=0.999, ε=1e-8.
func NewAdam(learningRate float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Step implements Optimizer.
func (a *Adam) Step(gradient []float64) []float64 {
	if len(a.M) != len(gradient) {
		a.M = make([]float64, len(gradient))
		a.V = make([]float64, len(gradient))
	}
	a.Iterations++

	delta := make([]float64, len(gradient))
	for i, g := range gradient {
		a.M[i] = a.Beta1*a.M[i] + (1-a.Beta1)*g
		a.V[i] = a.Beta2*a.V[i] + (1-a.Beta2)*g*g

		mHat := a.M[i] / (1 - math.Pow(a.Beta1, float64(a.Iterations)))
		vHat := a.V[i] / (1 - math.Pow(a.Beta2, float64(a.Iterations)))

		delta[i] = -a.LearningRate * mHat / (math.Sqrt(vHat) + a.Epsilon)
	}
	return delta
}

// Save writes the optimizer state to a JSON file.
func (a *Adam) Save(path string) error {
	return saveJSON(a, path)
}

// LoadAdam restores Adam state from a JSON file.
func LoadAdam(path string) (*Adam, error) {
	var a Adam
	if err := loadJSON(&a, path); err != nil {
		return nil, err
	}
	return &a, nil
}

func saveJSON(v any, path string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode optimizer: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write optimizer: %w", err)
	}
	return nil
}

func loadJSON(v any, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read optimizer: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode optimizer: %w", err)
	}
	return nil
}
