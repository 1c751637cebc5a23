package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/safepay/internal/domain/event"
	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

func TestNewPrediction_Fraud(t *testing.T) {
	record := newRecord(t, valueobject.TransactionTypeTransfer, 300000, model.Balances{})
	factors := []valueobject.RiskFactor{valueobject.RiskFactorHighRiskType, valueobject.RiskFactorEmptySenderBalance}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	p, err := model.NewPrediction(record, 1, [2]float64{0.2, 0.8}, factors, valueobject.ModelSourceFallback, at)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.True(t, p.Label().IsFraud())
	assert.InDelta(t, 0.8, p.FraudProbability(), 1e-9)
	assert.InDelta(t, 0.8, p.Confidence(), 1e-9)
	assert.Equal(t, valueobject.RiskLevelCritical, p.RiskLevel())
	assert.Equal(t, []string{"high_risk_type", "empty_sender_balance"}, p.RiskFactorCodes())
	assert.Equal(t, at, p.PredictedAt())
	assert.Len(t, p.BalanceWarnings(), 2)

	evts := p.DomainEvents()
	require.Len(t, evts, 2)
	assert.Equal(t, event.EventTypePredictionCompleted, evts[0].EventType())
	assert.Equal(t, event.EventTypeFraudDetected, evts[1].EventType())
	assert.Equal(t, p.ID(), evts[1].AggregateID())

	detected, ok := evts[1].(event.FraudDetected)
	require.True(t, ok)
	assert.Equal(t, "TRANSFER", detected.TransactionType)
	assert.Equal(t, "300000", detected.Amount)

	assert.Empty(t, p.DomainEvents(), "events are cleared after being read")
}

func TestNewPrediction_Safe(t *testing.T) {
	record := newRecord(t, valueobject.TransactionTypePayment, 100, model.Balances{})

	p, err := model.NewPrediction(record, 0, [2]float64{0.85, 0.15}, nil, valueobject.ModelSourceArtifact, time.Time{})
	require.NoError(t, err)

	assert.False(t, p.Label().IsFraud())
	assert.InDelta(t, 0.85, p.Confidence(), 1e-9)
	assert.Equal(t, valueobject.RiskLevelLow, p.RiskLevel())
	assert.False(t, p.PredictedAt().IsZero())
	assert.Contains(t, p.Recommendation(), "processed normally")

	evts := p.DomainEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, event.EventTypePredictionCompleted, evts[0].EventType())
}

func TestNewPrediction_RejectsBadOutput(t *testing.T) {
	record := newRecord(t, valueobject.TransactionTypePayment, 100, model.Balances{})

	tests := []struct {
		name  string
		class int
		proba [2]float64
	}{
		{"sum above one", 0, [2]float64{0.9, 0.2}},
		{"sum below one", 0, [2]float64{0.4, 0.4}},
		{"negative probability", 1, [2]float64{-0.5, 1.5}},
		{"unknown class", 2, [2]float64{0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewPrediction(record, tt.class, tt.proba, nil, valueobject.ModelSourceArtifact, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestReconstructPrediction(t *testing.T) {
	record := newRecord(t, valueobject.TransactionTypeCashOut, 100, model.Balances{})
	id := uuid.New()

	p := model.ReconstructPrediction(id, record, valueobject.LabelNotFraud, 0.6, 0.4, nil,
		valueobject.ModelSourceArtifact, time.Now())

	assert.Equal(t, id, p.ID())
	assert.Equal(t, valueobject.RiskLevelMedium, p.RiskLevel())
	assert.Empty(t, p.DomainEvents())
}
