package usecase_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/pkg/events"
)

// --- Mock implementations ---

type mockPredictionRepository struct {
	saved          []*model.Prediction
	saveFunc       func(ctx context.Context, p *model.Prediction) error
	findByIDFunc   func(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
	listRecentFunc func(ctx context.Context, limit int) ([]*model.Prediction, error)
}

func (m *mockPredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, port.ErrPredictionNotFound
}

func (m *mockPredictionRepository) ListRecent(ctx context.Context, limit int) ([]*model.Prediction, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return nil, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockPredictionCache struct {
	mu      sync.Mutex
	entries map[string]port.CachedVerdict
	getErr  error
	setErr  error
}

func newMockCache() *mockPredictionCache {
	return &mockPredictionCache{entries: make(map[string]port.CachedVerdict)}
}

func (m *mockPredictionCache) Get(_ context.Context, key string) (port.CachedVerdict, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return port.CachedVerdict{}, false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockPredictionCache) Set(_ context.Context, key string, v port.CachedVerdict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = v
	return nil
}

type mockClassifier struct {
	calls       int
	predictFunc func(x []float64) (int, error)
	probaFunc   func(x []float64) ([2]float64, error)
}

func (m *mockClassifier) Predict(x []float64) (int, error) {
	m.calls++
	if m.predictFunc != nil {
		return m.predictFunc(x)
	}
	return 0, nil
}

func (m *mockClassifier) PredictProba(x []float64) ([2]float64, error) {
	if m.probaFunc != nil {
		return m.probaFunc(x)
	}
	return [2]float64{0.9, 0.1}, nil
}

type passthroughScaler struct{}

func (passthroughScaler) Transform(x []float64) ([]float64, error) { return x, nil }

type staticCatalog struct{ insights model.Insights }

func (c staticCatalog) Insights() model.Insights { return c.insights }

// --- Fixtures ---

func transferInput() dto.TransactionInput {
	return dto.TransactionInput{
		Day:            2,
		Hour:           3,
		Type:           "TRANSFER",
		Amount:         decimal.NewFromInt(300_000),
		OldBalanceOrg:  decimal.NewFromInt(300_000),
		NewBalanceOrig: decimal.Zero,
		OldBalanceDest: decimal.Zero,
		NewBalanceDest: decimal.Zero,
	}
}
