package usecase

import (
	"fmt"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// buildRecord turns the form input into a validated record. Every failure
// wraps valueobject.ErrInvalidInput.
func buildRecord(in dto.TransactionInput) (model.TransactionRecord, error) {
	step, err := valueobject.DeriveStep(in.Day, in.Hour)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("invalid step: %w", err)
	}

	typ, err := valueobject.ParseTransactionType(in.Type)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("invalid transaction type: %w", err)
	}

	return model.NewTransactionRecord(step, typ, in.Amount, model.Balances{
		OldOrg:  in.OldBalanceOrg,
		NewOrig: in.NewBalanceOrig,
		OldDest: in.OldBalanceDest,
		NewDest: in.NewBalanceDest,
	})
}
