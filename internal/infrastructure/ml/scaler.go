package ml

import (
	"encoding/json"
	"fmt"
)

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

type standardScalerDoc struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// ParseStandardScaler decodes a {"mean": [...], "scale": [...]} document.
func ParseStandardScaler(data []byte) (*StandardScaler, error) {
	var doc standardScalerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode scaler: %w", err)
	}
	if len(doc.Mean) != featureCount || len(doc.Scale) != featureCount {
		return nil, fmt.Errorf("scaler must have %d means and scales, got %d and %d",
			featureCount, len(doc.Mean), len(doc.Scale))
	}

	scale := make([]float64, featureCount)
	for i, s := range doc.Scale {
		// sklearn stores 1 for constant features; older dumps may carry 0.
		if s == 0 {
			s = 1
		}
		scale[i] = s
	}

	return &StandardScaler{mean: doc.Mean, scale: scale}, nil
}

// Transform scales a raw feature vector.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(x); err != nil {
		return nil, err
	}
	out := make([]float64, featureCount)
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// IdentityScaler passes features through unchanged.
type IdentityScaler struct{}

// Transform returns a copy of x.
func (IdentityScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(x); err != nil {
		return nil, err
	}
	return append([]float64(nil), x...), nil
}
