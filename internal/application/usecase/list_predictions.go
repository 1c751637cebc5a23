package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/port"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListPredictions returns the most recent predictions.
type ListPredictions struct {
	repo port.PredictionRepository
}

func NewListPredictions(repo port.PredictionRepository) *ListPredictions {
	return &ListPredictions{repo: repo}
}

// Execute lists newest first. A zero limit selects DefaultListLimit.
func (uc *ListPredictions) Execute(ctx context.Context, req dto.ListPredictionsRequest) (dto.PredictionListResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.PredictionListResponse{}, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}

	predictions, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return dto.PredictionListResponse{}, fmt.Errorf("failed to list predictions: %w", err)
	}

	resp := dto.PredictionListResponse{
		Predictions: make([]dto.PredictionResponse, 0, len(predictions)),
		Count:       len(predictions),
	}
	for _, p := range predictions {
		resp.Predictions = append(resp.Predictions, dto.FromModel(p))
	}
	return resp, nil
}
