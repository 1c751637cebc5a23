package usecase

import (
	"context"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/service"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// ModelStatus is what the loader learned about the artifacts at startup.
type ModelStatus struct {
	LoadErr error
	Source  valueobject.ModelSource
	Kind    string
	Ready   bool
}

// GetModelInfo reports the loaded classifier and the encoding it expects.
type GetModelInfo struct {
	status ModelStatus
}

func NewGetModelInfo(status ModelStatus) *GetModelInfo {
	return &GetModelInfo{status: status}
}

func (uc *GetModelInfo) Execute(_ context.Context) dto.ModelInfoResponse {
	resp := dto.ModelInfoResponse{
		Source:       uc.status.Source.String(),
		Kind:         uc.status.Kind,
		Ready:        uc.status.Ready,
		FeatureOrder: append([]string(nil), service.FeatureNames...),
		MaxStep:      valueobject.MaxStep,
	}
	if uc.status.LoadErr != nil {
		resp.LoadError = uc.status.LoadErr.Error()
	}
	for _, t := range valueobject.TransactionTypes() {
		resp.TypeEncoding = append(resp.TypeEncoding, dto.TypeEncodingResponse{Type: t.String(), Code: t.Code()})
	}
	return resp
}
