package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/port"
)

// GetPrediction is the use case for retrieving an earlier prediction.
type GetPrediction struct {
	repo port.PredictionRepository
}

// NewGetPrediction creates a new GetPrediction use case.
func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

// Execute retrieves a prediction by ID. Unknown ids yield
// port.ErrPredictionNotFound.
func (uc *GetPrediction) Execute(ctx context.Context, req dto.GetPredictionRequest) (dto.PredictionResponse, error) {
	prediction, err := uc.repo.FindByID(ctx, req.PredictionID)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}
	if prediction == nil {
		return dto.PredictionResponse{}, fmt.Errorf("%w: %s", port.ErrPredictionNotFound, req.PredictionID)
	}

	return dto.FromModel(prediction), nil
}
