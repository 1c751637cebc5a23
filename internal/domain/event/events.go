package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/safepay/pkg/events"
)

const (
	// EventTypePredictionCompleted is emitted for every successful inference.
	EventTypePredictionCompleted = "fraud.prediction.completed"

	// EventTypeFraudDetected is emitted when the classifier labels a record as fraud.
	EventTypeFraudDetected = "fraud.fraud.detected"

	// AggregateTypePrediction names the aggregate both events belong to.
	AggregateTypePrediction = "prediction"
)

// PredictionCompleted is published when a transaction record has been scored.
type PredictionCompleted struct {
	events.BaseEvent
	Label            string    `json:"label"`
	RiskLevel        string    `json:"risk_level"`
	ModelSource      string    `json:"model_source"`
	TransactionType  string    `json:"transaction_type"`
	Amount           string    `json:"amount"`
	RiskFactors      []string  `json:"risk_factors"`
	PredictedAt      time.Time `json:"predicted_at"`
	FraudProbability float64   `json:"fraud_probability"`
	Step             int       `json:"step"`
}

// NewPredictionCompleted builds the completion event for prediction id.
func NewPredictionCompleted(
	id uuid.UUID,
	label, riskLevel, modelSource, transactionType, amount string,
	fraudProbability float64,
	step int,
	riskFactors []string,
	predictedAt time.Time,
) PredictionCompleted {
	return PredictionCompleted{
		BaseEvent:        events.NewBaseEvent(EventTypePredictionCompleted, id, AggregateTypePrediction, predictedAt),
		Label:            label,
		RiskLevel:        riskLevel,
		ModelSource:      modelSource,
		TransactionType:  transactionType,
		Amount:           amount,
		FraudProbability: fraudProbability,
		Step:             step,
		RiskFactors:      riskFactors,
		PredictedAt:      predictedAt,
	}
}

// FraudDetected is published for FRAUD verdicts so downstream alerting can
// hold or review the transaction.
type FraudDetected struct {
	events.BaseEvent
	TransactionType  string    `json:"transaction_type"`
	Amount           string    `json:"amount"`
	RiskLevel        string    `json:"risk_level"`
	RiskFactors      []string  `json:"risk_factors"`
	DetectedAt       time.Time `json:"detected_at"`
	FraudProbability float64   `json:"fraud_probability"`
}

// NewFraudDetected builds the alert event for prediction id.
func NewFraudDetected(
	id uuid.UUID,
	transactionType, amount, riskLevel string,
	fraudProbability float64,
	riskFactors []string,
	detectedAt time.Time,
) FraudDetected {
	return FraudDetected{
		BaseEvent:        events.NewBaseEvent(EventTypeFraudDetected, id, AggregateTypePrediction, detectedAt),
		TransactionType:  transactionType,
		Amount:           amount,
		RiskLevel:        riskLevel,
		FraudProbability: fraudProbability,
		RiskFactors:      riskFactors,
		DetectedAt:       detectedAt,
	}
}
