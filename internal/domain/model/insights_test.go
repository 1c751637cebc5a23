package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/safepay/internal/domain/model"
)

func TestBandForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  model.ImportanceBand
	}{
		{0.44, model.ImportanceVeryImportant},
		{0.40, model.ImportanceVeryImportant},
		{0.19, model.ImportanceImportant},
		{0.15, model.ImportanceImportant},
		{0.05, model.ImportanceModerate},
		{0.04, model.ImportanceMinimal},
		{0.002, model.ImportanceMinimal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.BandForScore(tt.score), "score %v", tt.score)
	}
}

func TestInsights_CaseGrowth(t *testing.T) {
	i := model.Insights{Trend: []model.TrendPoint{
		{Year: 2020, Cases: 1409},
		{Year: 2021, Cases: 1000},
		{Year: 2025, Cases: 14496},
	}}

	percent, added := i.CaseGrowth()
	assert.Equal(t, 928, percent)
	assert.Equal(t, 13087, added)

	percent, added = model.Insights{}.CaseGrowth()
	assert.Zero(t, percent)
	assert.Zero(t, added)
}

func TestInsights_Validate(t *testing.T) {
	valid := model.Insights{
		Trend:    []model.TrendPoint{{Year: 2020, Cases: 1}, {Year: 2021, Cases: 2}},
		Features: []model.FeatureImportance{{Feature: "amount", Score: 0.15}},
	}
	assert.NoError(t, valid.Validate())

	unordered := valid
	unordered.Trend = []model.TrendPoint{{Year: 2021, Cases: 1}, {Year: 2020, Cases: 2}}
	assert.Error(t, unordered.Validate())

	badScore := valid
	badScore.Features = []model.FeatureImportance{{Feature: "amount", Score: 1.5}}
	assert.Error(t, badScore.Validate())

	assert.Error(t, model.Insights{}.Validate())
}

func TestInsights_FeaturesByImportance(t *testing.T) {
	i := model.Insights{Features: []model.FeatureImportance{
		{Feature: "step", Score: 0.003},
		{Feature: "newbalanceOrig", Score: 0.44},
		{Feature: "amount", Score: 0.15},
	}}

	sorted := i.FeaturesByImportance()
	assert.Equal(t, "newbalanceOrig", sorted[0].Feature)
	assert.Equal(t, "step", sorted[2].Feature)
	assert.Equal(t, "step", i.Features[0].Feature, "catalog order untouched")
}
