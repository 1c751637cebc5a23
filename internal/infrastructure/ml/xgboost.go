package ml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// XGBoostClassifier evaluates a gbtree ensemble saved with
// Booster.save_model("model.json") under the binary:logistic objective.
type XGBoostClassifier struct {
	trees      []tree
	baseMargin float64
}

// XGBoost holds features and cut points as float32 and compares in that
// width, so splitConditions keeps it.
type tree struct {
	splitIndices    []int
	splitConditions []float32
	leftChildren    []int
	rightChildren   []int
	defaultLeft     []bool
}

type xgbDoc struct {
	Learner struct {
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
	} `json:"learner"`
}

type xgbTree struct {
	SplitIndices    []int       `json:"split_indices"`
	SplitConditions []float32   `json:"split_conditions"`
	LeftChildren    []int       `json:"left_children"`
	RightChildren   []int       `json:"right_children"`
	DefaultLeft     flexBoolArr `json:"default_left"`
}

// flexBoolArr accepts default_left as booleans or 0/1 integers; both appear
// across XGBoost releases.
type flexBoolArr []bool

func (f *flexBoolArr) UnmarshalJSON(data []byte) error {
	var bools []bool
	if err := json.Unmarshal(data, &bools); err == nil {
		*f = bools
		return nil
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("default_left: %w", err)
	}
	out := make([]bool, len(ints))
	for i, v := range ints {
		out[i] = v != 0
	}
	*f = out
	return nil
}

// ParseXGBoost decodes an XGBoost JSON model.
func ParseXGBoost(data []byte) (*XGBoostClassifier, error) {
	var doc xgbDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode xgboost model: %w", err)
	}

	learner := doc.Learner
	if name := learner.Objective.Name; name != "binary:logistic" {
		return nil, fmt.Errorf("unsupported xgboost objective %q", name)
	}
	if name := learner.GradientBooster.Name; name != "gbtree" {
		return nil, fmt.Errorf("unsupported xgboost booster %q", name)
	}
	if nf := learner.LearnerModelParam.NumFeature; nf != "" {
		n, err := strconv.Atoi(nf)
		if err != nil || n != featureCount {
			return nil, fmt.Errorf("xgboost model expects %q features, want %d", nf, featureCount)
		}
	}

	baseScore, err := parseBaseScore(learner.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}

	raw := learner.GradientBooster.Model.Trees
	if len(raw) == 0 {
		return nil, fmt.Errorf("xgboost model has no trees")
	}
	trees := make([]tree, 0, len(raw))
	for i, t := range raw {
		parsed, err := t.validate()
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees = append(trees, parsed)
	}

	return &XGBoostClassifier{trees: trees, baseMargin: logit(baseScore)}, nil
}

// parseBaseScore handles "5E-1" as well as the bracketed "[5E-1]" written by
// XGBoost 3.
func parseBaseScore(s string) (float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", s, err)
	}
	if v <= 0 || v >= 1 {
		return 0, fmt.Errorf("base_score %v outside (0,1)", v)
	}
	return v, nil
}

func (t xgbTree) validate() (tree, error) {
	n := len(t.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("empty tree")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return tree{}, fmt.Errorf("inconsistent node arrays")
	}
	defaultLeft := []bool(t.DefaultLeft)
	if len(defaultLeft) == 0 {
		defaultLeft = make([]bool, n)
	}
	if len(defaultLeft) != n {
		return tree{}, fmt.Errorf("inconsistent default_left")
	}

	for i := 0; i < n; i++ {
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l == -1 {
			continue
		}
		// Children always come after their parent, which rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return tree{}, fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if idx := t.SplitIndices[i]; idx < 0 || idx >= featureCount {
			return tree{}, fmt.Errorf("node %d splits on feature %d", i, idx)
		}
	}

	return tree{
		splitIndices:    t.SplitIndices,
		splitConditions: t.SplitConditions,
		leftChildren:    t.LeftChildren,
		rightChildren:   t.RightChildren,
		defaultLeft:     defaultLeft,
	}, nil
}

func (t tree) leaf(x []float64) float64 {
	node := 0
	for t.leftChildren[node] != -1 {
		v := x[t.splitIndices[node]]
		switch {
		case math.IsNaN(v):
			if t.defaultLeft[node] {
				node = t.leftChildren[node]
			} else {
				node = t.rightChildren[node]
			}
		case float32(v) < t.splitConditions[node]:
			node = t.leftChildren[node]
		default:
			node = t.rightChildren[node]
		}
	}
	return float64(t.splitConditions[node])
}

func (c *XGBoostClassifier) fraudProbability(x []float64) (float64, error) {
	if err := checkWidth(x); err != nil {
		return 0, err
	}
	margin := c.baseMargin
	for _, t := range c.trees {
		margin += t.leaf(x)
	}
	return sigmoid(margin), nil
}

// Predict returns 1 when the fraud probability exceeds 0.5.
func (c *XGBoostClassifier) Predict(x []float64) (int, error) {
	p, err := c.fraudProbability(x)
	if err != nil {
		return 0, err
	}
	return classOf(p), nil
}

// PredictProba returns [p(safe), p(fraud)].
func (c *XGBoostClassifier) PredictProba(x []float64) ([2]float64, error) {
	p, err := c.fraudProbability(x)
	if err != nil {
		return [2]float64{}, err
	}
	return binaryProba(p), nil
}

// TreeCount returns the ensemble size.
func (c *XGBoostClassifier) TreeCount() int {
	return len(c.trees)
}
