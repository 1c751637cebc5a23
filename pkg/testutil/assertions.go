package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertErrorIs checks errors.Is(err, target) with a readable failure message.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	assert.True(t, errors.Is(err, target), "expected error chain of %v to contain %v", err, target)
}

// AssertDecimalEqual compares decimals by value, ignoring exponent differences.
func AssertDecimalEqual(t *testing.T, expected, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, expected.Equal(actual), "expected %s, got %s", expected, actual)
}

// AssertProbabilitiesSumToOne checks a two-class probability pair.
func AssertProbabilitiesSumToOne(t *testing.T, safe, fraud float64) {
	t.Helper()
	assert.InDelta(t, 1.0, safe+fraud, 1e-6, "probabilities %.8f + %.8f", safe, fraud)
}
