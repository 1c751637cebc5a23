package insights_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/infrastructure/insights"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := insights.Load("")
	require.NoError(t, err)
	ins := c.Insights()

	require.Len(t, ins.Trend, 6)
	assert.Equal(t, 2020, ins.Trend[0].Year)
	assert.Equal(t, 14496, ins.Trend[5].Cases)
	assert.InDelta(t, 2600, ins.Trend[5].LossesBillionRp, 1e-9)

	assert.Equal(t, 1247, ins.Today.TransactionsAnalyzed)
	assert.Equal(t, 23, ins.Today.FraudDetected)
	assert.InDelta(t, 99.7, ins.Today.AccuracyPercent, 1e-9)

	percent, added := ins.CaseGrowth()
	assert.Equal(t, 928, percent)
	assert.Equal(t, 13087, added)

	require.Len(t, ins.Features, 7)
	top := ins.FeaturesByImportance()[0]
	assert.Equal(t, "newbalanceOrig", top.Feature)
	assert.Equal(t, model.ImportanceVeryImportant, top.Band())

	assert.Len(t, ins.Headlines, 2)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "trend:\n  - {year: 2024, cases: 10}\n  - {year: 2025, cases: 30}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := insights.Load(path)
	require.NoError(t, err)
	percent, _ := c.Insights().CaseGrowth()
	assert.Equal(t, 200, percent)
}

func TestLoad_Errors(t *testing.T) {
	_, err := insights.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = insights.Parse([]byte("trend: [oops"))
	assert.Error(t, err)

	_, err = insights.Parse([]byte("trend:\n  - {year: 2020, cases: 5}\n"))
	assert.ErrorContains(t, err, "invalid insights catalog")
}
