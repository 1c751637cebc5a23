package valueobject

import "fmt"

// RiskFactor is a heuristic tag raised alongside a prediction.
type RiskFactor struct {
	code        string
	description string
}

var (
	RiskFactorLargeAmount          = RiskFactor{"large_amount", "Amount is above 1,000,000"}
	RiskFactorHighRiskType         = RiskFactor{"high_risk_type", "CASH-OUT and TRANSFER are the most abused transaction types"}
	RiskFactorEmptySenderBalance   = RiskFactor{"empty_sender_balance", "Sender had a zero balance before the transaction"}
	RiskFactorNewRecipientAccount  = RiskFactor{"new_recipient_account", "Recipient looks like a freshly funded empty account"}
	RiskFactorAmountExceedsBalance = RiskFactor{"amount_exceeds_balance", "Amount is larger than the sender's balance"}
	RiskFactorEarlyMorning         = RiskFactor{"early_morning", "Transaction happened between 00:00 and 05:59"}
	RiskFactorLateNight            = RiskFactor{"late_night", "Transaction happened at 22:00 or later"}
	RiskFactorEndOfPeriod          = RiskFactor{"end_of_period", "Transaction falls in the last days of the period"}
)

var riskFactorsByCode = map[string]RiskFactor{}

func init() {
	for _, f := range []RiskFactor{
		RiskFactorLargeAmount, RiskFactorHighRiskType, RiskFactorEmptySenderBalance,
		RiskFactorNewRecipientAccount, RiskFactorAmountExceedsBalance,
		RiskFactorEarlyMorning, RiskFactorLateNight, RiskFactorEndOfPeriod,
	} {
		riskFactorsByCode[f.code] = f
	}
}

// RiskFactorFromCode reconstructs a factor from its stored code.
func RiskFactorFromCode(code string) (RiskFactor, error) {
	f, ok := riskFactorsByCode[code]
	if !ok {
		return RiskFactor{}, fmt.Errorf("invalid risk factor: %s", code)
	}
	return f, nil
}

// Code returns the machine-readable tag.
func (f RiskFactor) Code() string { return f.code }

// Description returns the human-readable explanation.
func (f RiskFactor) Description() string { return f.description }

// BalanceWarning flags an arithmetic mismatch between amount and balances.
type BalanceWarning string

const (
	WarningSenderBalanceInconsistent    BalanceWarning = "sender_balance_inconsistent"
	WarningRecipientBalanceInconsistent BalanceWarning = "recipient_balance_inconsistent"
)

func (w BalanceWarning) String() string { return string(w) }
