package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/safepay/internal/domain/event"
	"github.com/bibbank/safepay/internal/domain/valueobject"
	"github.com/bibbank/safepay/pkg/events"
)

// ProbabilityTolerance bounds |p(safe) + p(fraud) - 1|.
const ProbabilityTolerance = 1e-6

// ErrInconsistentProbabilities is returned when class probabilities do not
// form a distribution.
var ErrInconsistentProbabilities = errors.New("class probabilities do not sum to 1")

// Prediction is the aggregate root for one classifier verdict.
type Prediction struct {
	predictedAt      time.Time
	record           TransactionRecord
	label            valueobject.Label
	riskLevel        valueobject.RiskLevel
	modelSource      valueobject.ModelSource
	riskFactors      []valueobject.RiskFactor
	balanceWarnings  []valueobject.BalanceWarning
	domainEvents     []events.DomainEvent
	safeProbability  float64
	fraudProbability float64
	id               uuid.UUID
}

// NewPrediction assembles a prediction from the classifier output for record.
// class is the predicted class index; probabilities holds [safe, fraud].
func NewPrediction(
	record TransactionRecord,
	class int,
	probabilities [2]float64,
	riskFactors []valueobject.RiskFactor,
	source valueobject.ModelSource,
	predictedAt time.Time,
) (*Prediction, error) {
	label, err := valueobject.LabelFromClass(class)
	if err != nil {
		return nil, err
	}
	for _, p := range probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: got %v", ErrInconsistentProbabilities, probabilities)
		}
	}
	if math.Abs(probabilities[0]+probabilities[1]-1) > ProbabilityTolerance {
		return nil, fmt.Errorf("%w: got %v", ErrInconsistentProbabilities, probabilities)
	}
	if predictedAt.IsZero() {
		predictedAt = time.Now().UTC()
	}

	p := &Prediction{
		id:               uuid.New(),
		record:           record,
		label:            label,
		safeProbability:  probabilities[0],
		fraudProbability: probabilities[1],
		riskLevel:        valueobject.RiskLevelFromProbability(probabilities[1]),
		modelSource:      source,
		riskFactors:      riskFactors,
		balanceWarnings:  record.BalanceWarnings(),
		predictedAt:      predictedAt,
	}

	factorCodes := p.RiskFactorCodes()
	p.domainEvents = append(p.domainEvents, event.NewPredictionCompleted(
		p.id, p.label.String(), p.riskLevel.String(), p.modelSource.String(),
		record.Type().String(), record.Amount().String(),
		p.fraudProbability, record.Step().Int(), factorCodes, p.predictedAt,
	))
	if label.IsFraud() {
		p.domainEvents = append(p.domainEvents, event.NewFraudDetected(
			p.id, record.Type().String(), record.Amount().String(), p.riskLevel.String(),
			p.fraudProbability, factorCodes, p.predictedAt,
		))
	}

	return p, nil
}

// ReconstructPrediction rebuilds a Prediction from persisted data (no validation, no events).
func ReconstructPrediction(
	id uuid.UUID,
	record TransactionRecord,
	label valueobject.Label,
	safeProbability, fraudProbability float64,
	riskFactors []valueobject.RiskFactor,
	source valueobject.ModelSource,
	predictedAt time.Time,
) *Prediction {
	return &Prediction{
		id:               id,
		record:           record,
		label:            label,
		safeProbability:  safeProbability,
		fraudProbability: fraudProbability,
		riskLevel:        valueobject.RiskLevelFromProbability(fraudProbability),
		modelSource:      source,
		riskFactors:      riskFactors,
		balanceWarnings:  record.BalanceWarnings(),
		predictedAt:      predictedAt,
		domainEvents:     make([]events.DomainEvent, 0),
	}
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID                                 { return p.id }
func (p *Prediction) Record() TransactionRecord                     { return p.record }
func (p *Prediction) Label() valueobject.Label                      { return p.label }
func (p *Prediction) SafeProbability() float64                      { return p.safeProbability }
func (p *Prediction) FraudProbability() float64                     { return p.fraudProbability }
func (p *Prediction) RiskLevel() valueobject.RiskLevel              { return p.riskLevel }
func (p *Prediction) ModelSource() valueobject.ModelSource          { return p.modelSource }
func (p *Prediction) RiskFactors() []valueobject.RiskFactor         { return p.riskFactors }
func (p *Prediction) BalanceWarnings() []valueobject.BalanceWarning { return p.balanceWarnings }
func (p *Prediction) PredictedAt() time.Time                        { return p.predictedAt }
func (p *Prediction) Recommendation() string                        { return p.label.Recommendation() }

// Confidence is the probability of the more likely class.
func (p *Prediction) Confidence() float64 {
	return math.Max(p.safeProbability, p.fraudProbability)
}

// RiskFactorCodes lists the factor tags in evaluation order.
func (p *Prediction) RiskFactorCodes() []string {
	codes := make([]string, 0, len(p.riskFactors))
	for _, f := range p.riskFactors {
		codes = append(codes, f.Code())
	}
	return codes
}

// DomainEvents returns all accumulated domain events and clears them.
func (p *Prediction) DomainEvents() []events.DomainEvent {
	evts := p.domainEvents
	p.domainEvents = make([]events.DomainEvent, 0)
	return evts
}
