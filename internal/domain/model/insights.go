package model

import (
	"fmt"
	"math"
	"sort"
)

// TrendPoint is one year of reported online-fraud cases and losses.
type TrendPoint struct {
	Year            int
	Cases           int
	LossesBillionRp float64
}

// DailyStats are the dashboard counters for the current day.
type DailyStats struct {
	TransactionsAnalyzed int
	FraudDetected        int
	AccuracyPercent      float64
}

// Headline is a pre-rendered dashboard metric.
type Headline struct {
	Label string
	Value string
	Delta string
}

// ImportanceBand buckets a feature importance score.
type ImportanceBand string

const (
	ImportanceVeryImportant ImportanceBand = "very_important"
	ImportanceImportant     ImportanceBand = "important"
	ImportanceModerate      ImportanceBand = "moderate"
	ImportanceMinimal       ImportanceBand = "minimal"
)

// BandForScore maps a score onto its band.
func BandForScore(score float64) ImportanceBand {
	switch {
	case score >= 0.40:
		return ImportanceVeryImportant
	case score >= 0.15:
		return ImportanceImportant
	case score >= 0.05:
		return ImportanceModerate
	default:
		return ImportanceMinimal
	}
}

// FeatureImportance describes one classifier input.
type FeatureImportance struct {
	Feature      string
	Description  string
	FraudPattern string
	Score        float64
}

// Band returns the importance band of the feature.
func (f FeatureImportance) Band() ImportanceBand {
	return BandForScore(f.Score)
}

// Insights is the static statistics catalog.
type Insights struct {
	Trend     []TrendPoint
	Headlines []Headline
	Features  []FeatureImportance
	Today     DailyStats
}

// Validate checks the catalog is internally consistent.
func (i Insights) Validate() error {
	if len(i.Trend) < 2 {
		return fmt.Errorf("trend needs at least two years, got %d", len(i.Trend))
	}
	for n := 1; n < len(i.Trend); n++ {
		if i.Trend[n].Year <= i.Trend[n-1].Year {
			return fmt.Errorf("trend years must be increasing at %d", i.Trend[n].Year)
		}
	}
	if i.Trend[0].Cases <= 0 {
		return fmt.Errorf("first trend year must have cases")
	}
	for _, f := range i.Features {
		if f.Score < 0 || f.Score > 1 {
			return fmt.Errorf("feature %s: importance %v outside [0,1]", f.Feature, f.Score)
		}
	}
	return nil
}

// CaseGrowth compares the first and last trend years. The percentage is
// truncated to a whole number.
func (i Insights) CaseGrowth() (percent int, added int) {
	if len(i.Trend) < 2 || i.Trend[0].Cases == 0 {
		return 0, 0
	}
	first, last := i.Trend[0].Cases, i.Trend[len(i.Trend)-1].Cases
	added = last - first
	percent = int(math.Floor(float64(added) / float64(first) * 100))
	return percent, added
}

// FeaturesByImportance returns the features sorted by descending score.
func (i Insights) FeaturesByImportance() []FeatureImportance {
	out := append([]FeatureImportance(nil), i.Features...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}
