// Package ml loads classifier and scaler artifacts from disk and evaluates
// them in-process.
package ml

import (
	"fmt"
	"math"
)

// featureCount is the width of the training feature vector.
const featureCount = 7

// Indices into the raw feature vector.
const (
	featureType   = 1
	featureAmount = 2
)

func checkWidth(x []float64) error {
	if len(x) != featureCount {
		return fmt.Errorf("expected %d features, got %d", featureCount, len(x))
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// binaryProba turns a positive-class probability into [p(safe), p(fraud)].
func binaryProba(p float64) [2]float64 {
	return [2]float64{1 - p, p}
}

func classOf(p float64) int {
	if p > 0.5 {
		return 1
	}
	return 0
}
