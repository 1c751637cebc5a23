package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

var (
	largeAmountThreshold = decimal.NewFromInt(1_000_000)
	endOfPeriodStep      = 600
	earlyMorningEndHour  = 5
	lateNightStartHour   = 22
)

// RiskFactorAnalyzer raises heuristic tags for a record. It does not look at
// the classifier output.
type RiskFactorAnalyzer struct{}

// NewRiskFactorAnalyzer creates a new RiskFactorAnalyzer instance.
func NewRiskFactorAnalyzer() *RiskFactorAnalyzer {
	return &RiskFactorAnalyzer{}
}

// Analyze evaluates every rule in a fixed order and returns the tags that hold.
func (a *RiskFactorAnalyzer) Analyze(r model.TransactionRecord) []valueobject.RiskFactor {
	factors := make([]valueobject.RiskFactor, 0)

	if r.Amount().GreaterThan(largeAmountThreshold) {
		factors = append(factors, valueobject.RiskFactorLargeAmount)
	}

	if r.Type().IsHighRisk() {
		factors = append(factors, valueobject.RiskFactorHighRiskType)
	}

	if r.OldBalanceOrg().IsZero() {
		factors = append(factors, valueobject.RiskFactorEmptySenderBalance)
	}

	// Empty recipient whose new balance is exactly the incoming amount.
	if r.OldBalanceDest().IsZero() && r.NewBalanceDest().Equal(r.OldBalanceDest().Add(r.Amount())) {
		factors = append(factors, valueobject.RiskFactorNewRecipientAccount)
	}

	if r.Amount().GreaterThan(r.OldBalanceOrg()) {
		factors = append(factors, valueobject.RiskFactorAmountExceedsBalance)
	}

	switch hour := r.Hour(); {
	case hour <= earlyMorningEndHour:
		factors = append(factors, valueobject.RiskFactorEarlyMorning)
	case hour >= lateNightStartHour:
		factors = append(factors, valueobject.RiskFactorLateNight)
	}

	if r.Step().Int() > endOfPeriodStep {
		factors = append(factors, valueobject.RiskFactorEndOfPeriod)
	}

	return factors
}
