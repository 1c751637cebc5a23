// Package insights loads the static fraud statistics catalog.
package insights

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bibbank/safepay/internal/domain/model"
)

//go:embed catalog.yaml
var embedded []byte

type catalogDoc struct {
	Trend []struct {
		Year            int     `yaml:"year"`
		Cases           int     `yaml:"cases"`
		LossesBillionRp float64 `yaml:"losses_billion_rp"`
	} `yaml:"trend"`
	Today struct {
		TransactionsAnalyzed int     `yaml:"transactions_analyzed"`
		FraudDetected        int     `yaml:"fraud_detected"`
		AccuracyPercent      float64 `yaml:"accuracy_percent"`
	} `yaml:"today"`
	Headlines []struct {
		Label string `yaml:"label"`
		Value string `yaml:"value"`
		Delta string `yaml:"delta"`
	} `yaml:"headlines"`
	Features []struct {
		Feature      string  `yaml:"feature"`
		Description  string  `yaml:"description"`
		FraudPattern string  `yaml:"fraud_pattern"`
		Score        float64 `yaml:"score"`
	} `yaml:"features"`
}

// Catalog serves an immutable Insights value.
type Catalog struct {
	insights model.Insights
}

// Load parses the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	data := embedded
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read insights catalog: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode insights catalog: %w", err)
	}

	var ins model.Insights
	for _, t := range doc.Trend {
		ins.Trend = append(ins.Trend, model.TrendPoint{Year: t.Year, Cases: t.Cases, LossesBillionRp: t.LossesBillionRp})
	}
	ins.Today = model.DailyStats{
		TransactionsAnalyzed: doc.Today.TransactionsAnalyzed,
		FraudDetected:        doc.Today.FraudDetected,
		AccuracyPercent:      doc.Today.AccuracyPercent,
	}
	for _, h := range doc.Headlines {
		ins.Headlines = append(ins.Headlines, model.Headline{Label: h.Label, Value: h.Value, Delta: h.Delta})
	}
	for _, f := range doc.Features {
		ins.Features = append(ins.Features, model.FeatureImportance{
			Feature:      f.Feature,
			Description:  f.Description,
			FraudPattern: f.FraudPattern,
			Score:        f.Score,
		})
	}

	if err := ins.Validate(); err != nil {
		return nil, fmt.Errorf("invalid insights catalog: %w", err)
	}
	return &Catalog{insights: ins}, nil
}

// Insights returns the catalog contents.
func (c *Catalog) Insights() model.Insights {
	return c.insights
}
