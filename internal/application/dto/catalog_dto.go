package dto

import (
	"github.com/bibbank/safepay/internal/domain/model"
)

type TrendPointResponse struct {
	Year            int     `json:"year"`
	Cases           int     `json:"cases"`
	LossesBillionRp float64 `json:"losses_billion_rp"`
}

type TodayResponse struct {
	TransactionsAnalyzed int     `json:"transactions_analyzed"`
	FraudDetected        int     `json:"fraud_detected"`
	AccuracyPercent      float64 `json:"accuracy_percent"`
}

type HeadlineResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta"`
}

type FeatureImportanceResponse struct {
	Feature      string  `json:"feature"`
	Band         string  `json:"band"`
	Description  string  `json:"description"`
	FraudPattern string  `json:"fraud_pattern"`
	Score        float64 `json:"score"`
}

type CaseGrowthResponse struct {
	FromYear   int `json:"from_year"`
	ToYear     int `json:"to_year"`
	Percent    int `json:"percent"`
	CasesAdded int `json:"cases_added"`
}

// InsightsResponse is the statistics catalog.
type InsightsResponse struct {
	Trend      []TrendPointResponse        `json:"trend"`
	Headlines  []HeadlineResponse          `json:"headlines"`
	Features   []FeatureImportanceResponse `json:"features"`
	Today      TodayResponse               `json:"today"`
	CaseGrowth CaseGrowthResponse          `json:"case_growth"`
}

// FromInsights maps the catalog; features are ordered by importance.
func FromInsights(ins model.Insights) InsightsResponse {
	resp := InsightsResponse{
		Today: TodayResponse{
			TransactionsAnalyzed: ins.Today.TransactionsAnalyzed,
			FraudDetected:        ins.Today.FraudDetected,
			AccuracyPercent:      ins.Today.AccuracyPercent,
		},
	}
	for _, t := range ins.Trend {
		resp.Trend = append(resp.Trend, TrendPointResponse{Year: t.Year, Cases: t.Cases, LossesBillionRp: t.LossesBillionRp})
	}
	for _, h := range ins.Headlines {
		resp.Headlines = append(resp.Headlines, HeadlineResponse{Label: h.Label, Value: h.Value, Delta: h.Delta})
	}
	for _, f := range ins.FeaturesByImportance() {
		resp.Features = append(resp.Features, FeatureImportanceResponse{
			Feature:      f.Feature,
			Score:        f.Score,
			Band:         string(f.Band()),
			Description:  f.Description,
			FraudPattern: f.FraudPattern,
		})
	}
	if n := len(ins.Trend); n >= 2 {
		percent, added := ins.CaseGrowth()
		resp.CaseGrowth = CaseGrowthResponse{
			FromYear:   ins.Trend[0].Year,
			ToYear:     ins.Trend[n-1].Year,
			Percent:    percent,
			CasesAdded: added,
		}
	}
	return resp
}

// TypeEncodingResponse is one entry of the categorical mapping.
type TypeEncodingResponse struct {
	Type string `json:"type"`
	Code int    `json:"code"`
}

// ModelInfoResponse describes the loaded classifier.
type ModelInfoResponse struct {
	Source       string                 `json:"source"`
	Kind         string                 `json:"kind"`
	LoadError    string                 `json:"load_error,omitempty"`
	FeatureOrder []string               `json:"feature_order"`
	TypeEncoding []TypeEncodingResponse `json:"type_encoding"`
	MaxStep      int                    `json:"max_step"`
	Ready        bool                   `json:"ready"`
}
