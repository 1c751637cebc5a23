package service

import (
	"github.com/bibbank/safepay/internal/domain/model"
)

// FeatureNames is the column order the classifier was trained on.
var FeatureNames = []string{
	"step",
	"type",
	"amount",
	"oldbalanceOrg",
	"newbalanceOrig",
	"oldbalanceDest",
	"newbalanceDest",
}

// FeatureCount is len(FeatureNames).
const FeatureCount = 7

// Features encodes a record as the raw, unscaled feature vector.
func Features(r model.TransactionRecord) []float64 {
	return []float64{
		float64(r.Step().Int()),
		float64(r.Type().Code()),
		r.Amount().InexactFloat64(),
		r.OldBalanceOrg().InexactFloat64(),
		r.NewBalanceOrig().InexactFloat64(),
		r.OldBalanceDest().InexactFloat64(),
		r.NewBalanceDest().InexactFloat64(),
	}
}
