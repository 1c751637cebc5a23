package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// BalanceTolerance is the largest rounding gap accepted between an amount
// and the balances it moved.
var BalanceTolerance = decimal.NewFromInt(1)

// TransactionRecord is the seven-attribute input the classifier was trained on.
// It is built fresh per request and is immutable.
type TransactionRecord struct {
	amount          decimal.Decimal
	oldBalanceOrg   decimal.Decimal
	newBalanceOrig  decimal.Decimal
	oldBalanceDest  decimal.Decimal
	newBalanceDest  decimal.Decimal
	transactionType valueobject.TransactionType
	step            valueobject.Step
}

// Balances groups the four balance snapshots of a record.
type Balances struct {
	OldOrg  decimal.Decimal
	NewOrig decimal.Decimal
	OldDest decimal.Decimal
	NewDest decimal.Decimal
}

// NewTransactionRecord validates and builds a record. Negative monetary
// values are rejected.
func NewTransactionRecord(
	step valueobject.Step,
	transactionType valueobject.TransactionType,
	amount decimal.Decimal,
	balances Balances,
) (TransactionRecord, error) {
	if step.IsZero() {
		return TransactionRecord{}, fmt.Errorf("%w: step is required", valueobject.ErrInvalidInput)
	}
	if transactionType.IsZero() {
		return TransactionRecord{}, fmt.Errorf("%w: transaction type is required", valueobject.ErrInvalidInput)
	}

	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"amount", amount},
		{"oldbalanceOrg", balances.OldOrg},
		{"newbalanceOrig", balances.NewOrig},
		{"oldbalanceDest", balances.OldDest},
		{"newbalanceDest", balances.NewDest},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return TransactionRecord{}, fmt.Errorf("%w: %s is %s", valueobject.ErrNegativeAmount, f.name, f.value)
		}
	}

	return TransactionRecord{
		step:            step,
		transactionType: transactionType,
		amount:          amount,
		oldBalanceOrg:   balances.OldOrg,
		newBalanceOrig:  balances.NewOrig,
		oldBalanceDest:  balances.OldDest,
		newBalanceDest:  balances.NewDest,
	}, nil
}

// --- Accessors ---

func (r TransactionRecord) Step() valueobject.Step            { return r.step }
func (r TransactionRecord) Type() valueobject.TransactionType { return r.transactionType }
func (r TransactionRecord) Amount() decimal.Decimal           { return r.amount }
func (r TransactionRecord) OldBalanceOrg() decimal.Decimal    { return r.oldBalanceOrg }
func (r TransactionRecord) NewBalanceOrig() decimal.Decimal   { return r.newBalanceOrig }
func (r TransactionRecord) OldBalanceDest() decimal.Decimal   { return r.oldBalanceDest }
func (r TransactionRecord) NewBalanceDest() decimal.Decimal   { return r.newBalanceDest }
func (r TransactionRecord) Day() int                          { return r.step.Day() }
func (r TransactionRecord) Hour() int                         { return r.step.Hour() }

// BalanceWarnings checks that the sender lost and the recipient gained the
// amount, within BalanceTolerance. The result is advisory only.
func (r TransactionRecord) BalanceWarnings() []valueobject.BalanceWarning {
	var warnings []valueobject.BalanceWarning

	senderGap := r.oldBalanceOrg.Sub(r.amount).Sub(r.newBalanceOrig).Abs()
	if senderGap.GreaterThan(BalanceTolerance) {
		warnings = append(warnings, valueobject.WarningSenderBalanceInconsistent)
	}

	recipientGap := r.oldBalanceDest.Add(r.amount).Sub(r.newBalanceDest).Abs()
	if recipientGap.GreaterThan(BalanceTolerance) {
		warnings = append(warnings, valueobject.WarningRecipientBalanceInconsistent)
	}

	return warnings
}

// CacheKey identifies the record's feature values, so two requests with the
// same inputs share a cached verdict.
func (r TransactionRecord) CacheKey() string {
	return fmt.Sprintf("%d|%d|%s|%s|%s|%s|%s",
		r.step.Int(), r.transactionType.Code(),
		r.amount.String(), r.oldBalanceOrg.String(), r.newBalanceOrig.String(),
		r.oldBalanceDest.String(), r.newBalanceDest.String(),
	)
}
