package ml

import (
	"fmt"
	"log/slog"

	"github.com/bibbank/safepay/internal/domain/port"
)

// fallbackAmountThreshold is the amount above which a CASH-OUT or TRANSFER
// is flagged by the rule classifier.
const fallbackAmountThreshold = 200_000

var (
	fallbackFraudProba = [2]float64{0.2, 0.8}
	fallbackSafeProba  = [2]float64{0.85, 0.15}
)

// RuleClassifier stands in for a missing artifact. It reads the raw,
// unscaled feature vector, so it must be paired with IdentityScaler.
type RuleClassifier struct {
	logger *slog.Logger
}

// NewRuleClassifier creates a new rule-based stand-in classifier.
func NewRuleClassifier(logger *slog.Logger) *RuleClassifier {
	return &RuleClassifier{logger: logger}
}

func (c *RuleClassifier) flag(x []float64) (bool, error) {
	if err := checkWidth(x); err != nil {
		return false, err
	}
	code := int(x[featureType])
	flagged := x[featureAmount] > fallbackAmountThreshold && (code == 2 || code == 3)

	c.logger.Debug("fallback classifier evaluated",
		slog.Float64("amount", x[featureAmount]),
		slog.Int("type_code", code),
		slog.Bool("flagged", flagged),
	)
	return flagged, nil
}

// Predict flags large CASH-OUT and TRANSFER records.
func (c *RuleClassifier) Predict(x []float64) (int, error) {
	flagged, err := c.flag(x)
	if err != nil {
		return 0, err
	}
	if flagged {
		return 1, nil
	}
	return 0, nil
}

// PredictProba returns fixed probabilities for each branch.
func (c *RuleClassifier) PredictProba(x []float64) ([2]float64, error) {
	flagged, err := c.flag(x)
	if err != nil {
		return [2]float64{}, err
	}
	if flagged {
		return fallbackFraudProba, nil
	}
	return fallbackSafeProba, nil
}

// UnavailableClassifier fails every call. It keeps the service up when an
// artifact exists but cannot be decoded.
type UnavailableClassifier struct {
	cause error
}

// NewUnavailableClassifier wraps the load failure.
func NewUnavailableClassifier(cause error) *UnavailableClassifier {
	return &UnavailableClassifier{cause: cause}
}

func (c *UnavailableClassifier) err() error {
	return fmt.Errorf("%w: %w", port.ErrModelUnavailable, c.cause)
}

// Predict always fails.
func (c *UnavailableClassifier) Predict([]float64) (int, error) { return 0, c.err() }

// PredictProba always fails.
func (c *UnavailableClassifier) PredictProba([]float64) ([2]float64, error) {
	return [2]float64{}, c.err()
}
