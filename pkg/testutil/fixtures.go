package testutil

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestPredictionID1 is a fixed id no generated prediction will carry.
var TestPredictionID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Rupiah builds a decimal from a whole rupiah amount.
func Rupiah(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
