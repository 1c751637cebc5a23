package usecase

import (
	"context"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/port"
)

// GetInsights serves the statistics catalog.
type GetInsights struct {
	catalog port.InsightsCatalog
}

func NewGetInsights(catalog port.InsightsCatalog) *GetInsights {
	return &GetInsights{catalog: catalog}
}

func (uc *GetInsights) Execute(_ context.Context) dto.InsightsResponse {
	return dto.FromInsights(uc.catalog.Insights())
}
