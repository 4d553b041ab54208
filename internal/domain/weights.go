package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned when a weight map does not carry exactly the
// health/trust/risk keys summing to 1.
var ErrInvalidWeights = errors.New("weights must be exactly health, trust, risk and sum to 1")

// weightSumTolerance is the allowed deviation of the weight sum from 1.
const weightSumTolerance = 1e-6

// Weights holds the composite-score group weights.
type Weights struct {
	Health float64
	Trust  float64
	Risk   float64
}

// DefaultWeights is the production weighting of the three sub-scores.
var DefaultWeights = Weights{Health: 0.45, Trust: 0.35, Risk: 0.20}

// Validate checks that the weights sum to 1 within tolerance.
func (w Weights) Validate() error {
	sum := w.Health + w.Trust + w.Risk
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: sum=%v", ErrInvalidWeights, sum)
	}
	return nil
}

// WeightsFromMap builds Weights from a key/value map, enforcing the exact
// key set {health, trust, risk}.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	if len(m) != 3 {
		return Weights{}, ErrInvalidWeights
	}
	for _, k := range []string{"health", "trust", "risk"} {
		if _, ok := m[k]; !ok {
			return Weights{}, fmt.Errorf("%w: missing key %q", ErrInvalidWeights, k)
		}
	}
	w := Weights{Health: m["health"], Trust: m["trust"], Risk: m["risk"]}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
