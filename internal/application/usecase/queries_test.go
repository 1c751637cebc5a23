package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/application/usecase"
	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

func storedPrediction(t *testing.T) *model.Prediction {
	t.Helper()
	step, err := valueobject.DeriveStep(1, 0)
	require.NoError(t, err)
	record, err := model.NewTransactionRecord(step, valueobject.TransactionTypeCashOut, decimal.NewFromInt(2_000_000), model.Balances{
		OldOrg:  decimal.Zero,
		NewOrig: decimal.Zero,
		OldDest: decimal.Zero,
		NewDest: decimal.NewFromInt(2_000_000),
	})
	require.NoError(t, err)
	return model.ReconstructPrediction(uuid.New(), record, valueobject.LabelFraud, 0.2, 0.8,
		[]valueobject.RiskFactor{valueobject.RiskFactorLargeAmount}, valueobject.ModelSourceFallback, time.Now().UTC())
}

func TestGetPrediction_Execute(t *testing.T) {
	t.Run("successfully retrieves a prediction", func(t *testing.T) {
		stored := storedPrediction(t)
		repo := &mockPredictionRepository{
			findByIDFunc: func(_ context.Context, id uuid.UUID) (*model.Prediction, error) {
				assert.Equal(t, stored.ID(), id)
				return stored, nil
			},
		}

		resp, err := usecase.NewGetPrediction(repo).Execute(context.Background(), dto.GetPredictionRequest{PredictionID: stored.ID()})

		require.NoError(t, err)
		assert.Equal(t, stored.ID(), resp.ID)
		assert.Equal(t, "FRAUD", resp.Label)
		assert.Equal(t, "CRITICAL", resp.RiskLevel)
		assert.Equal(t, "fallback", resp.ModelSource)
		assert.Equal(t, "CASH-OUT", resp.Transaction.Type)
		require.Len(t, resp.RiskFactors, 1)
		assert.Equal(t, "large_amount", resp.RiskFactors[0].Code)
	})

	t.Run("fails when prediction not found", func(t *testing.T) {
		repo := &mockPredictionRepository{}

		_, err := usecase.NewGetPrediction(repo).Execute(context.Background(), dto.GetPredictionRequest{PredictionID: uuid.New()})

		assert.ErrorIs(t, err, port.ErrPredictionNotFound)
	})
}

func TestListPredictions_Execute(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
		wantErr   error
	}{
		{name: "default limit", limit: 0, wantLimit: usecase.DefaultListLimit},
		{name: "explicit limit", limit: 5, wantLimit: 5},
		{name: "max limit", limit: usecase.MaxListLimit, wantLimit: usecase.MaxListLimit},
		{name: "limit too large", limit: usecase.MaxListLimit + 1, wantErr: valueobject.ErrInvalidInput},
		{name: "negative limit", limit: -1, wantErr: valueobject.ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stored := storedPrediction(t)
			var gotLimit int
			repo := &mockPredictionRepository{
				listRecentFunc: func(_ context.Context, limit int) ([]*model.Prediction, error) {
					gotLimit = limit
					return []*model.Prediction{stored}, nil
				},
			}

			resp, err := usecase.NewListPredictions(repo).Execute(context.Background(), dto.ListPredictionsRequest{Limit: tc.limit})

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLimit, gotLimit)
			assert.Equal(t, 1, resp.Count)
			assert.Equal(t, stored.ID(), resp.Predictions[0].ID)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		repo := &mockPredictionRepository{
			listRecentFunc: func(context.Context, int) ([]*model.Prediction, error) {
				return nil, errors.New("db down")
			},
		}

		_, err := usecase.NewListPredictions(repo).Execute(context.Background(), dto.ListPredictionsRequest{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list predictions")
	})
}

func TestValidateTransaction_Execute(t *testing.T) {
	uc := usecase.NewValidateTransaction()

	t.Run("valid input", func(t *testing.T) {
		resp := uc.Execute(context.Background(), dto.ValidateRequest{TransactionInput: transferInput()})

		assert.True(t, resp.Valid)
		assert.Equal(t, 28, resp.Step)
		require.NotNil(t, resp.TypeCode)
		assert.Equal(t, 3, *resp.TypeCode)
		assert.Empty(t, resp.StepError)
	})

	t.Run("step beyond horizon is clamped and reported", func(t *testing.T) {
		in := transferInput()
		in.Day, in.Hour = 31, 23

		resp := uc.Execute(context.Background(), dto.ValidateRequest{TransactionInput: in})

		assert.False(t, resp.Valid)
		assert.Equal(t, valueobject.MaxStep, resp.Step)
		assert.NotEmpty(t, resp.StepError)
	})

	t.Run("unknown type", func(t *testing.T) {
		in := transferInput()
		in.Type = "WIRE"

		resp := uc.Execute(context.Background(), dto.ValidateRequest{TransactionInput: in})

		assert.False(t, resp.Valid)
		assert.Nil(t, resp.TypeCode)
		assert.NotEmpty(t, resp.TypeError)
	})

	t.Run("negative amount", func(t *testing.T) {
		in := transferInput()
		in.Amount = decimal.NewFromInt(-5)

		resp := uc.Execute(context.Background(), dto.ValidateRequest{TransactionInput: in})

		assert.False(t, resp.Valid)
		assert.NotEmpty(t, resp.AmountError)
	})

	t.Run("balance mismatch is a warning only", func(t *testing.T) {
		in := transferInput()
		in.NewBalanceOrig = decimal.NewFromInt(250_000)

		resp := uc.Execute(context.Background(), dto.ValidateRequest{TransactionInput: in})

		assert.True(t, resp.Valid)
		assert.Contains(t, resp.BalanceWarnings, string(valueobject.WarningSenderBalanceInconsistent))
	})
}

func TestGetInsights_Execute(t *testing.T) {
	catalog := staticCatalog{insights: model.Insights{
		Trend: []model.TrendPoint{
			{Year: 2020, Cases: 100, LossesBillionRp: 1.5},
			{Year: 2021, Cases: 250, LossesBillionRp: 3},
		},
		Features: []model.FeatureImportance{
			{Feature: "step", Score: 0.02},
			{Feature: "amount", Score: 0.45},
		},
	}}

	resp := usecase.NewGetInsights(catalog).Execute(context.Background())

	require.Len(t, resp.Trend, 2)
	require.Len(t, resp.Features, 2)
	assert.Equal(t, "amount", resp.Features[0].Feature)
	assert.Equal(t, "very_important", resp.Features[0].Band)
	assert.Equal(t, "minimal", resp.Features[1].Band)
	assert.Equal(t, 150, resp.CaseGrowth.Percent)
	assert.Equal(t, 150, resp.CaseGrowth.CasesAdded)
}

func TestGetModelInfo_Execute(t *testing.T) {
	status := usecase.ModelStatus{
		Source:  valueobject.ModelSourceFallback,
		Kind:    "rules",
		Ready:   true,
		LoadErr: errors.New("open models/xgboost_model.json: no such file or directory"),
	}

	resp := usecase.NewGetModelInfo(status).Execute(context.Background())

	assert.Equal(t, "fallback", resp.Source)
	assert.True(t, resp.Ready)
	assert.Contains(t, resp.LoadError, "no such file")
	assert.Equal(t, []string{"step", "type", "amount", "oldbalanceOrg", "newbalanceOrig", "oldbalanceDest", "newbalanceDest"}, resp.FeatureOrder)
	require.Len(t, resp.TypeEncoding, 5)
	assert.Equal(t, dto.TypeEncodingResponse{Type: "PAYMENT", Code: 0}, resp.TypeEncoding[0])
	assert.Equal(t, dto.TypeEncodingResponse{Type: "CASH-IN", Code: 4}, resp.TypeEncoding[4])
	assert.Equal(t, 743, resp.MaxStep)
}
