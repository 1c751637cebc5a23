package ml

import (
	"encoding/json"
	"fmt"
)

const kindLogistic = "logistic"

// LogisticClassifier is a linear model with a sigmoid link.
type LogisticClassifier struct {
	coefficients []float64
	intercept    float64
}

type logisticDoc struct {
	Kind         string    `json:"kind"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// ParseLogistic decodes {"kind":"logistic","coefficients":[...],"intercept":x}.
func ParseLogistic(data []byte) (*LogisticClassifier, error) {
	var doc logisticDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode logistic model: %w", err)
	}
	if doc.Kind != kindLogistic {
		return nil, fmt.Errorf("unexpected model kind %q", doc.Kind)
	}
	if len(doc.Coefficients) != featureCount {
		return nil, fmt.Errorf("logistic model must have %d coefficients, got %d", featureCount, len(doc.Coefficients))
	}
	return &LogisticClassifier{coefficients: doc.Coefficients, intercept: doc.Intercept}, nil
}

func (c *LogisticClassifier) fraudProbability(x []float64) (float64, error) {
	if err := checkWidth(x); err != nil {
		return 0, err
	}
	z := c.intercept
	for i, w := range c.coefficients {
		z += w * x[i]
	}
	return sigmoid(z), nil
}

// Predict returns 1 when the fraud probability exceeds 0.5.
func (c *LogisticClassifier) Predict(x []float64) (int, error) {
	p, err := c.fraudProbability(x)
	if err != nil {
		return 0, err
	}
	return classOf(p), nil
}

// PredictProba returns [p(safe), p(fraud)].
func (c *LogisticClassifier) PredictProba(x []float64) ([2]float64, error) {
	p, err := c.fraudProbability(x)
	if err != nil {
		return [2]float64{}, err
	}
	return binaryProba(p), nil
}
