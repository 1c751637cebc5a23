package valueobject

import (
	"fmt"
	"strings"
)

// TransactionType is one of the five mobile-money transaction categories.
type TransactionType struct {
	value string
	code  int
}

// The integer codes must match the label encoding used at training time.
var (
	TransactionTypePayment  = TransactionType{value: "PAYMENT", code: 0}
	TransactionTypeDebit    = TransactionType{value: "DEBIT", code: 1}
	TransactionTypeCashOut  = TransactionType{value: "CASH-OUT", code: 2}
	TransactionTypeTransfer = TransactionType{value: "TRANSFER", code: 3}
	TransactionTypeCashIn   = TransactionType{value: "CASH-IN", code: 4}
)

// TransactionTypes lists every type in code order.
func TransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypePayment,
		TransactionTypeDebit,
		TransactionTypeCashOut,
		TransactionTypeTransfer,
		TransactionTypeCashIn,
	}
}

// ParseTransactionType is case-insensitive and accepts "_" in place of "-".
func ParseTransactionType(s string) (TransactionType, error) {
	normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "_", "-")
	for _, t := range TransactionTypes() {
		if t.value == normalized {
			return t, nil
		}
	}
	return TransactionType{}, fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
}

// TransactionTypeFromCode reverses Code.
func TransactionTypeFromCode(code int) (TransactionType, error) {
	types := TransactionTypes()
	if code < 0 || code >= len(types) {
		return TransactionType{}, fmt.Errorf("%w: code %d", ErrUnknownTransactionType, code)
	}
	return types[code], nil
}

// String returns the canonical name.
func (t TransactionType) String() string { return t.value }

// Code returns the integer feature value.
func (t TransactionType) Code() int { return t.code }

// IsHighRisk reports whether the type moves money out of the sender's wallet
// to a third party (CASH-OUT or TRANSFER).
func (t TransactionType) IsHighRisk() bool {
	return t == TransactionTypeCashOut || t == TransactionTypeTransfer
}

// IsZero returns true if the type has not been set.
func (t TransactionType) IsZero() bool { return t.value == "" }
