package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// Paths locates the two artifacts on disk.
type Paths struct {
	Classifier string
	Scaler     string
}

// Model is the result of loading artifacts. LoadErr is nil only when both
// artifacts were read and decoded.
type Model struct {
	Classifier port.Classifier
	Scaler     port.Scaler
	LoadErr    error
	Source     valueobject.ModelSource
	Kind       string
}

// Ready reports whether predictions can succeed.
func (m Model) Ready() bool {
	_, unavailable := m.Classifier.(*UnavailableClassifier)
	return !unavailable
}

// Model kinds reported on the model-info endpoint.
const (
	KindXGBoost     = "xgboost"
	KindLogistic    = "logistic"
	KindRules       = "rules"
	KindUnavailable = "unavailable"
)

// Load reads the classifier and scaler.
//
// A missing file on either path substitutes RuleClassifier with
// IdentityScaler. Any other failure yields an UnavailableClassifier so every
// prediction reports the model as unloadable.
func Load(paths Paths, logger *slog.Logger) Model {
	clfData, clfErr := os.ReadFile(paths.Classifier)
	scalerData, scalerErr := os.ReadFile(paths.Scaler)

	if missing := errors.Join(notExist(clfErr), notExist(scalerErr)); missing != nil {
		logger.Warn("model artifacts missing, using fallback classifier",
			slog.String("classifier_path", paths.Classifier),
			slog.String("scaler_path", paths.Scaler),
			slog.String("error", missing.Error()),
		)
		return Model{
			Classifier: NewRuleClassifier(logger),
			Scaler:     IdentityScaler{},
			Source:     valueobject.ModelSourceFallback,
			Kind:       KindRules,
			LoadErr:    missing,
		}
	}

	unavailable := func(err error) Model {
		logger.Error("failed to load model artifacts", slog.String("error", err.Error()))
		return Model{
			Classifier: NewUnavailableClassifier(err),
			Scaler:     IdentityScaler{},
			Source:     valueobject.ModelSourceArtifact,
			Kind:       KindUnavailable,
			LoadErr:    err,
		}
	}

	if err := errors.Join(clfErr, scalerErr); err != nil {
		return unavailable(err)
	}

	classifier, kind, err := ParseClassifier(clfData)
	if err != nil {
		return unavailable(fmt.Errorf("classifier %s: %w", paths.Classifier, err))
	}
	scaler, err := ParseStandardScaler(scalerData)
	if err != nil {
		return unavailable(fmt.Errorf("scaler %s: %w", paths.Scaler, err))
	}

	logger.Info("model artifacts loaded",
		slog.String("kind", kind),
		slog.String("classifier_path", paths.Classifier),
		slog.String("scaler_path", paths.Scaler),
	)
	return Model{
		Classifier: classifier,
		Scaler:     scaler,
		Source:     valueobject.ModelSourceArtifact,
		Kind:       kind,
	}
}

func notExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ParseClassifier detects the artifact format and decodes it.
func ParseClassifier(data []byte) (port.Classifier, string, error) {
	var probe struct {
		Kind    string          `json:"kind"`
		Learner json.RawMessage `json:"learner"`
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&probe); err != nil {
		return nil, "", fmt.Errorf("failed to decode classifier: %w", err)
	}

	switch {
	case probe.Kind == kindLogistic:
		c, err := ParseLogistic(data)
		return c, KindLogistic, err
	case len(probe.Learner) > 0:
		c, err := ParseXGBoost(data)
		return c, KindXGBoost, err
	default:
		return nil, "", fmt.Errorf("unrecognized classifier format")
	}
}
