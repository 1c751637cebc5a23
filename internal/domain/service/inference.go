package service

import (
	"fmt"
	"log/slog"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// Inference is the raw classifier verdict for one record.
type Inference struct {
	Source        valueobject.ModelSource
	Probabilities [2]float64
	Class         int
}

// InferenceEngine runs the encode, scale, predict and predict-proba pipeline
// against one loaded classifier and scaler pair. Both are read-only after
// construction, so the engine is safe for concurrent use.
type InferenceEngine struct {
	classifier port.Classifier
	scaler     port.Scaler
	source     valueobject.ModelSource
	logger     *slog.Logger
}

// NewInferenceEngine wires a classifier and scaler together.
func NewInferenceEngine(classifier port.Classifier, scaler port.Scaler, source valueobject.ModelSource, logger *slog.Logger) *InferenceEngine {
	return &InferenceEngine{
		classifier: classifier,
		scaler:     scaler,
		source:     source,
		logger:     logger,
	}
}

// Source reports which classifier the engine wraps.
func (e *InferenceEngine) Source() valueobject.ModelSource {
	return e.source
}

// Infer scores a record.
func (e *InferenceEngine) Infer(r model.TransactionRecord) (Inference, error) {
	raw := Features(r)

	scaled, err := e.scaler.Transform(raw)
	if err != nil {
		return Inference{}, fmt.Errorf("failed to scale features: %w", err)
	}

	class, err := e.classifier.Predict(scaled)
	if err != nil {
		return Inference{}, fmt.Errorf("failed to predict class: %w", err)
	}

	proba, err := e.classifier.PredictProba(scaled)
	if err != nil {
		return Inference{}, fmt.Errorf("failed to predict probabilities: %w", err)
	}

	e.logger.Debug("inference complete",
		slog.Int("step", r.Step().Int()),
		slog.String("type", r.Type().String()),
		slog.Int("class", class),
		slog.Float64("fraud_probability", proba[1]),
		slog.String("model_source", e.source.String()),
	)

	return Inference{Class: class, Probabilities: proba, Source: e.source}, nil
}
