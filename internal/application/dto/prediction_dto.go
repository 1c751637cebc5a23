package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/safepay/internal/domain/model"
)

// TransactionInput carries the seven form fields, with the step entered as
// a day and hour.
type TransactionInput struct {
	Type           string          `json:"type" validate:"required,max=16"`
	Amount         decimal.Decimal `json:"amount"`
	OldBalanceOrg  decimal.Decimal `json:"oldbalanceOrg"`
	NewBalanceOrig decimal.Decimal `json:"newbalanceOrig"`
	OldBalanceDest decimal.Decimal `json:"oldbalanceDest"`
	NewBalanceDest decimal.Decimal `json:"newbalanceDest"`
	Day            int             `json:"day" validate:"min=1,max=31"`
	Hour           int             `json:"hour" validate:"min=0,max=23"`
}

// PredictRequest is the input DTO for the PredictTransaction use case.
type PredictRequest struct {
	TransactionInput
}

// ValidateRequest is the input DTO for the ValidateTransaction use case.
type ValidateRequest struct {
	TransactionInput
}

// GetPredictionRequest is the input DTO for retrieving a prediction.
type GetPredictionRequest struct {
	PredictionID uuid.UUID `json:"prediction_id" validate:"required"`
}

// ListPredictionsRequest is the input DTO for listing history.
type ListPredictionsRequest struct {
	Limit int `json:"limit" validate:"min=0,max=100"`
}

// ProbabilitiesResponse holds the two class probabilities.
type ProbabilitiesResponse struct {
	Safe  float64 `json:"safe"`
	Fraud float64 `json:"fraud"`
}

// RiskFactorResponse is one heuristic tag.
type RiskFactorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// TransactionResponse echoes the encoded record.
type TransactionResponse struct {
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	OldBalanceOrg  string `json:"oldbalanceOrg"`
	NewBalanceOrig string `json:"newbalanceOrig"`
	OldBalanceDest string `json:"oldbalanceDest"`
	NewBalanceDest string `json:"newbalanceDest"`
	Step           int    `json:"step"`
	Day            int    `json:"day"`
	Hour           int    `json:"hour"`
	TypeCode       int    `json:"type_code"`
}

// PredictionResponse is the output DTO returned after a prediction.
type PredictionResponse struct {
	PredictedAt     time.Time             `json:"predicted_at"`
	Label           string                `json:"label"`
	RiskLevel       string                `json:"risk_level"`
	Recommendation  string                `json:"recommendation"`
	ModelSource     string                `json:"model_source"`
	RiskFactors     []RiskFactorResponse  `json:"risk_factors"`
	BalanceWarnings []string              `json:"balance_warnings"`
	Transaction     TransactionResponse   `json:"transaction"`
	Probabilities   ProbabilitiesResponse `json:"probabilities"`
	Confidence      float64               `json:"confidence"`
	RiskFactorCount int                   `json:"risk_factor_count"`
	ID              uuid.UUID             `json:"id"`
	IsFraud         bool                  `json:"is_fraud"`
}

// PredictionListResponse wraps a page of history.
type PredictionListResponse struct {
	Predictions []PredictionResponse `json:"predictions"`
	Count       int                  `json:"count"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(p *model.Prediction) PredictionResponse {
	rec := p.Record()

	factors := make([]RiskFactorResponse, 0, len(p.RiskFactors()))
	for _, f := range p.RiskFactors() {
		factors = append(factors, RiskFactorResponse{Code: f.Code(), Description: f.Description()})
	}
	warnings := make([]string, 0, len(p.BalanceWarnings()))
	for _, w := range p.BalanceWarnings() {
		warnings = append(warnings, w.String())
	}

	return PredictionResponse{
		ID:      p.ID(),
		Label:   p.Label().String(),
		IsFraud: p.Label().IsFraud(),
		Probabilities: ProbabilitiesResponse{
			Safe:  p.SafeProbability(),
			Fraud: p.FraudProbability(),
		},
		Confidence:      p.Confidence(),
		RiskLevel:       p.RiskLevel().String(),
		Recommendation:  p.Recommendation(),
		RiskFactors:     factors,
		RiskFactorCount: len(factors),
		BalanceWarnings: warnings,
		ModelSource:     p.ModelSource().String(),
		Transaction: TransactionResponse{
			Step:           rec.Step().Int(),
			Day:            rec.Day(),
			Hour:           rec.Hour(),
			Type:           rec.Type().String(),
			TypeCode:       rec.Type().Code(),
			Amount:         rec.Amount().String(),
			OldBalanceOrg:  rec.OldBalanceOrg().String(),
			NewBalanceOrig: rec.NewBalanceOrig().String(),
			OldBalanceDest: rec.OldBalanceDest().String(),
			NewBalanceDest: rec.NewBalanceDest().String(),
		},
		PredictedAt: p.PredictedAt(),
	}
}

// ValidationResponse previews the encoding of a request without scoring it.
type ValidationResponse struct {
	TypeCode        *int     `json:"type_code"`
	StepError       string   `json:"step_error,omitempty"`
	TypeError       string   `json:"type_error,omitempty"`
	AmountError     string   `json:"amount_error,omitempty"`
	BalanceWarnings []string `json:"balance_warnings"`
	Step            int      `json:"step"`
	Valid           bool     `json:"valid"`
}
