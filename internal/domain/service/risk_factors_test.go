package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/service"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

type recordFields struct {
	typ                                       valueobject.TransactionType
	day, hour                                 int
	amount, oldOrg, newOrig, oldDest, newDest int64
}

func buildRecord(t *testing.T, s recordFields) model.TransactionRecord {
	t.Helper()
	step, err := valueobject.DeriveStep(s.day, s.hour)
	require.NoError(t, err)
	r, err := model.NewTransactionRecord(step, s.typ, decimal.NewFromInt(s.amount), model.Balances{
		OldOrg:  decimal.NewFromInt(s.oldOrg),
		NewOrig: decimal.NewFromInt(s.newOrig),
		OldDest: decimal.NewFromInt(s.oldDest),
		NewDest: decimal.NewFromInt(s.newDest),
	})
	require.NoError(t, err)
	return r
}

func codes(factors []valueobject.RiskFactor) []string {
	out := make([]string, 0, len(factors))
	for _, f := range factors {
		out = append(out, f.Code())
	}
	return out
}

func TestRiskFactorAnalyzer_Analyze(t *testing.T) {
	analyzer := service.NewRiskFactorAnalyzer()

	tests := []struct {
		name string
		args recordFields
		want []string
	}{
		{
			name: "ordinary midday payment",
			args: recordFields{typ: valueobject.TransactionTypePayment, day: 2, hour: 12,
				amount: 100, oldOrg: 1000, newOrig: 900, oldDest: 500, newDest: 600},
			want: []string{},
		},
		{
			name: "large cash-out from empty wallet",
			args: recordFields{typ: valueobject.TransactionTypeCashOut, day: 2, hour: 12,
				amount: 2_000_000, oldOrg: 0, newOrig: 0, oldDest: 10, newDest: 10},
			want: []string{"large_amount", "high_risk_type", "empty_sender_balance", "amount_exceeds_balance"},
		},
		{
			name: "transfer to freshly funded account",
			args: recordFields{typ: valueobject.TransactionTypeTransfer, day: 2, hour: 12,
				amount: 5000, oldOrg: 5000, newOrig: 0, oldDest: 0, newDest: 5000},
			want: []string{"high_risk_type", "new_recipient_account"},
		},
		{
			name: "early morning boundary",
			args: recordFields{typ: valueobject.TransactionTypeDebit, day: 2, hour: 5,
				amount: 10, oldOrg: 100, newOrig: 90, oldDest: 5, newDest: 15},
			want: []string{"early_morning"},
		},
		{
			name: "hour 6 is daytime",
			args: recordFields{typ: valueobject.TransactionTypeDebit, day: 2, hour: 6,
				amount: 10, oldOrg: 100, newOrig: 90, oldDest: 5, newDest: 15},
			want: []string{},
		},
		{
			name: "late night at end of period",
			args: recordFields{typ: valueobject.TransactionTypeCashIn, day: 30, hour: 22,
				amount: 10, oldOrg: 100, newOrig: 110, oldDest: 5, newDest: 0},
			want: []string{"late_night", "end_of_period"},
		},
		{
			name: "step 600 is not end of period",
			args: recordFields{typ: valueobject.TransactionTypeCashIn, day: 25, hour: 23,
				amount: 10, oldOrg: 100, newOrig: 110, oldDest: 5, newDest: 0},
			want: []string{"late_night"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(buildRecord(t, tt.args))
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestRiskFactorAnalyzer_AtLeastThreeForLargeEmptyCashOut(t *testing.T) {
	r := buildRecord(t, recordFields{typ: valueobject.TransactionTypeCashOut, day: 10, hour: 14,
		amount: 2_000_000, oldOrg: 0})

	got := service.NewRiskFactorAnalyzer().Analyze(r)
	assert.GreaterOrEqual(t, len(got), 3)
}

func TestFeatures_Order(t *testing.T) {
	r := buildRecord(t, recordFields{typ: valueobject.TransactionTypeTransfer, day: 1, hour: 0,
		amount: 300, oldOrg: 1000, newOrig: 700, oldDest: 20, newDest: 320})

	assert.Equal(t, []float64{1, 3, 300, 1000, 700, 20, 320}, service.Features(r))
	assert.Len(t, service.FeatureNames, service.FeatureCount)
}
