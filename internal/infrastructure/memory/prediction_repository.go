// Package memory holds the in-process prediction history used when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
)

// DefaultCapacity bounds the history kept in memory.
const DefaultCapacity = 10_000

// PredictionRepository implements port.PredictionRepository in memory.
// Once capacity is reached the oldest entries are evicted.
type PredictionRepository struct {
	byID     map[uuid.UUID]*model.Prediction
	order    []uuid.UUID
	capacity int
	mu       sync.RWMutex
}

// NewPredictionRepository creates an empty repository. A non-positive
// capacity selects DefaultCapacity.
func NewPredictionRepository(capacity int) *PredictionRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &PredictionRepository{
		byID:     make(map[uuid.UUID]*model.Prediction),
		capacity: capacity,
	}
}

// Save stores a prediction.
func (r *PredictionRepository) Save(_ context.Context, p *model.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID()]; exists {
		return fmt.Errorf("prediction %s already exists", p.ID())
	}
	if len(r.order) >= r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.byID, oldest)
	}
	r.byID[p.ID()] = p
	r.order = append(r.order, p.ID())
	return nil
}

// FindByID retrieves a prediction by its unique identifier.
func (r *PredictionRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrPredictionNotFound, id)
	}
	return p, nil
}

// ListRecent returns up to limit predictions, newest first.
func (r *PredictionRepository) ListRecent(_ context.Context, limit int) ([]*model.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit > len(r.order) {
		limit = len(r.order)
	}
	out := make([]*model.Prediction, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.byID[r.order[i]])
	}
	return out, nil
}
