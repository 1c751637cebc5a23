package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/pkg/events"
)

// ErrPredictionNotFound is returned by repositories for unknown ids.
var ErrPredictionNotFound = errors.New("prediction not found")

// PredictionRepository defines the persistence port for prediction history.
type PredictionRepository interface {
	// Save persists a new prediction.
	Save(ctx context.Context, prediction *model.Prediction) error

	// FindByID retrieves a prediction by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)

	// ListRecent returns up to limit predictions, newest first.
	ListRecent(ctx context.Context, limit int) ([]*model.Prediction, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// CachedVerdict is the classifier output stored for a feature vector.
type CachedVerdict struct {
	Source        string     `json:"source"`
	Probabilities [2]float64 `json:"probabilities"`
	Class         int        `json:"class"`
}

// PredictionCache memoizes classifier output keyed by
// model.TransactionRecord.CacheKey.
type PredictionCache interface {
	// Get returns the cached verdict and whether it was present.
	Get(ctx context.Context, key string) (CachedVerdict, bool, error)

	// Set stores a verdict.
	Set(ctx context.Context, key string, verdict CachedVerdict) error
}

// InsightsCatalog serves the read-only statistics catalog.
type InsightsCatalog interface {
	Insights() model.Insights
}
