package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/application/usecase"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
	"github.com/bibbank/safepay/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
// It is a no-op when the server runs without authentication.
func (h *FraudServiceHandler) requireRole(ctx context.Context, roles ...string) error {
	if !h.authRequired {
		return nil
	}
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(roles...) {
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return nil
}

// Compile-time assertion that FraudServiceHandler implements FraudDetectionServiceServer.
var _ FraudDetectionServiceServer = (*FraudServiceHandler)(nil)

// FraudServiceHandler implements the gRPC FraudDetectionServiceServer interface.
type FraudServiceHandler struct {
	UnimplementedFraudDetectionServiceServer
	predictTransaction *usecase.PredictTransaction
	getPrediction      *usecase.GetPrediction
	logger             *slog.Logger
	authRequired       bool
}

// NewFraudServiceHandler creates a new gRPC handler. authRequired enables the
// per-method role checks and must match whether the auth interceptor is
// installed.
func NewFraudServiceHandler(
	predictTransaction *usecase.PredictTransaction,
	getPrediction *usecase.GetPrediction,
	logger *slog.Logger,
	authRequired bool,
) *FraudServiceHandler {
	return &FraudServiceHandler{
		predictTransaction: predictTransaction,
		getPrediction:      getPrediction,
		logger:             logger,
		authRequired:       authRequired,
	}
}

// Proto-aligned request/response message types.

// PredictRequest represents the proto PredictRequest message. Monetary
// fields are decimal strings.
type PredictRequest struct {
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	OldBalanceOrg  string `json:"oldbalance_org"`
	NewBalanceOrig string `json:"newbalance_orig"`
	OldBalanceDest string `json:"oldbalance_dest"`
	NewBalanceDest string `json:"newbalance_dest"`
	Day            int32  `json:"day"`
	Hour           int32  `json:"hour"`
}

// RiskFactorMsg represents the proto RiskFactor message.
type RiskFactorMsg struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// PredictionMsg represents the proto Prediction message.
type PredictionMsg struct {
	ID               string          `json:"id"`
	Label            string          `json:"label"`
	RiskLevel        string          `json:"risk_level"`
	Recommendation   string          `json:"recommendation"`
	ModelSource      string          `json:"model_source"`
	TransactionType  string          `json:"transaction_type"`
	Amount           string          `json:"amount"`
	PredictedAt      string          `json:"predicted_at"`
	RiskFactors      []RiskFactorMsg `json:"risk_factors"`
	BalanceWarnings  []string        `json:"balance_warnings"`
	SafeProbability  float64         `json:"safe_probability"`
	FraudProbability float64         `json:"fraud_probability"`
	Confidence       float64         `json:"confidence"`
	Step             int32           `json:"step"`
	RiskFactorCount  int32           `json:"risk_factor_count"`
	IsFraud          bool            `json:"is_fraud"`
}

// PredictResponse represents the proto PredictResponse message.
type PredictResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// GetPredictionRequest represents the proto GetPredictionRequest message.
type GetPredictionRequest struct {
	ID string `json:"id"`
}

// GetPredictionResponse represents the proto GetPredictionResponse message.
type GetPredictionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// Predict handles a prediction request.
func (h *FraudServiceHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if err := h.requireRole(ctx, auth.RoleAdmin, auth.RoleAnalyst, auth.RoleService); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amounts := []struct {
		name  string
		raw   string
		value decimal.Decimal
	}{
		{name: "amount", raw: req.Amount},
		{name: "oldbalance_org", raw: req.OldBalanceOrg},
		{name: "newbalance_orig", raw: req.NewBalanceOrig},
		{name: "oldbalance_dest", raw: req.OldBalanceDest},
		{name: "newbalance_dest", raw: req.NewBalanceDest},
	}
	for i := range amounts {
		if amounts[i].raw == "" {
			continue
		}
		v, err := decimal.NewFromString(amounts[i].raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid %s: %v", amounts[i].name, err)
		}
		amounts[i].value = v
	}

	result, err := h.predictTransaction.Execute(ctx, dto.PredictRequest{TransactionInput: dto.TransactionInput{
		Day:            int(req.Day),
		Hour:           int(req.Hour),
		Type:           req.Type,
		Amount:         amounts[0].value,
		OldBalanceOrg:  amounts[1].value,
		NewBalanceOrig: amounts[2].value,
		OldBalanceDest: amounts[3].value,
		NewBalanceDest: amounts[4].value,
	}})
	if err != nil {
		return nil, h.toStatus("predict", err)
	}

	return &PredictResponse{Prediction: toPredictionMsg(result)}, nil
}

// GetPrediction handles a get prediction request.
func (h *FraudServiceHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	if err := h.requireRole(ctx, auth.RoleAdmin, auth.RoleAnalyst); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getPrediction.Execute(ctx, dto.GetPredictionRequest{PredictionID: id})
	if err != nil {
		return nil, h.toStatus("get prediction", err)
	}

	return &GetPredictionResponse{Prediction: toPredictionMsg(result)}, nil
}

func (h *FraudServiceHandler) toStatus(op string, err error) error {
	switch {
	case errors.Is(err, valueobject.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrPredictionNotFound):
		return status.Error(codes.NotFound, "prediction not found")
	case errors.Is(err, port.ErrModelUnavailable):
		return status.Error(codes.Unavailable, port.ErrModelUnavailable.Error())
	default:
		h.logger.Error("failed to "+op, slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}

func toPredictionMsg(r dto.PredictionResponse) *PredictionMsg {
	factors := make([]RiskFactorMsg, 0, len(r.RiskFactors))
	for _, f := range r.RiskFactors {
		factors = append(factors, RiskFactorMsg{Code: f.Code, Description: f.Description})
	}
	return &PredictionMsg{
		ID:               r.ID.String(),
		Label:            r.Label,
		IsFraud:          r.IsFraud,
		SafeProbability:  r.Probabilities.Safe,
		FraudProbability: r.Probabilities.Fraud,
		Confidence:       r.Confidence,
		RiskLevel:        r.RiskLevel,
		Recommendation:   r.Recommendation,
		RiskFactors:      factors,
		RiskFactorCount:  int32(r.RiskFactorCount),
		BalanceWarnings:  r.BalanceWarnings,
		ModelSource:      r.ModelSource,
		TransactionType:  r.Transaction.Type,
		Amount:           r.Transaction.Amount,
		Step:             int32(r.Transaction.Step),
		PredictedAt:      r.PredictedAt.UTC().Format(time.RFC3339Nano),
	}
}
