package train

import "math"

// Flat-parameter helpers. Trainers treat a network as one flat
// parameter vector; these convert between that vector and the layered
// go-deep weight shape.

// CountParams returns the total number of parameters in a layered
// weight set.
func CountParams(weights [][][]float64) int {
	n := 0
	for _, layer := range weights {
		for _, neuron := range layer {
			n += len(neuron)
		}
	}
	return n
}

// Flatten concatenates a layered weight set into one vector.
func Flatten(weights [][][]float64) []float64 {
	flat := make([]float64, 0, CountParams(weights))
	for _, layer := range weights {
		for _, neuron := range layer {
			flat = append(flat, neuron...)
		}
	}
	return flat
}

// AddFlat returns a copy of weights with the flat delta added on top.
// The delta length must match the parameter count.
func AddFlat(weights [][][]float64, delta []float64) [][][]float64 {
	out := make([][][]float64, len(weights))
	i := 0
	for l, layer := range weights {
		out[l] = make([][]float64, len(layer))
		for n, neuron := range layer {
			modified := make([]float64, len(neuron))
			for w, value := range neuron {
				modified[w] = value + delta[i]
				i++
			}
			out[l][n] = modified
		}
	}
	if i != len(delta) {
		panic("train: delta length does not match parameter count")
	}
	return out
}

// Unflatten shapes a flat vector like the given weight set.
func Unflatten(shape [][][]float64, flat []float64) [][][]float64 {
	out := make([][][]float64, len(shape))
	i := 0
	for l, layer := range shape {
		out[l] = make([][]float64, len(layer))
		for n, neuron := range layer {
			modified := make([]float64, len(neuron))
			copy(modified, flat[i:i+len(neuron)])
			i += len(neuron)
			out[l][n] = modified
		}
	}
	if i != len(flat) {
		panic("train: flat length does not match parameter count")
	}
	return out
}

// NormalizeScores shifts and scales scores in place to mean 0 and
// standard deviation 1. A constant score vector is left at 0.
func NormalizeScores(scores []float64) {
	if len(scores) == 0 {
		return
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		diff := s - mean
		variance += diff * diff
	}
	variance /= float64(len(scores))

	if variance == 0 {
		for i := range scores {
			scores[i] = 0
		}
		return
	}

	std := math.Sqrt(variance)
	for i := range scores {
		scores[i] = (scores[i] - mean) / std
	}
}
