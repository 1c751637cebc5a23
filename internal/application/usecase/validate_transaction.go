package usecase

import (
	"context"
	"errors"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// ValidateTransaction previews how a form would be encoded, without running
// the classifier. It never fails; problems are reported field by field.
type ValidateTransaction struct{}

func NewValidateTransaction() *ValidateTransaction {
	return &ValidateTransaction{}
}

func (uc *ValidateTransaction) Execute(_ context.Context, req dto.ValidateRequest) dto.ValidationResponse {
	resp := dto.ValidationResponse{BalanceWarnings: []string{}}

	step, err := valueobject.DeriveStep(req.Day, req.Hour)
	resp.Step = step.Int()
	if err != nil {
		resp.StepError = err.Error()
	}

	typ, err := valueobject.ParseTransactionType(req.Type)
	if err != nil {
		resp.TypeError = err.Error()
	} else {
		code := typ.Code()
		resp.TypeCode = &code
	}

	// A clamped step still lets the balances be checked.
	if !step.IsZero() && !typ.IsZero() {
		record, err := model.NewTransactionRecord(step, typ, req.Amount, model.Balances{
			OldOrg:  req.OldBalanceOrg,
			NewOrig: req.NewBalanceOrig,
			OldDest: req.OldBalanceDest,
			NewDest: req.NewBalanceDest,
		})
		switch {
		case errors.Is(err, valueobject.ErrNegativeAmount):
			resp.AmountError = err.Error()
		case err == nil:
			for _, w := range record.BalanceWarnings() {
				resp.BalanceWarnings = append(resp.BalanceWarnings, w.String())
			}
		}
	}

	resp.Valid = resp.StepError == "" && resp.TypeError == "" && resp.AmountError == ""
	return resp
}
