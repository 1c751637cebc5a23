package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
	"github.com/bibbank/safepay/internal/infrastructure/memory"
	"github.com/bibbank/safepay/pkg/testutil"
)

func newPrediction(t *testing.T) *model.Prediction {
	t.Helper()
	step, err := valueobject.NewStep(1)
	require.NoError(t, err)
	record, err := model.NewTransactionRecord(step, valueobject.TransactionTypePayment, testutil.Rupiah(10), model.Balances{})
	require.NoError(t, err)
	p, err := model.NewPrediction(record, 0, [2]float64{0.85, 0.15}, nil, valueobject.ModelSourceFallback, time.Now())
	require.NoError(t, err)
	return p
}

func TestPredictionRepository_SaveFind(t *testing.T) {
	repo := memory.NewPredictionRepository(0)
	ctx := context.Background()
	p := newPrediction(t)

	require.NoError(t, repo.Save(ctx, p))
	testutil.AssertErrorContains(t, repo.Save(ctx, p), "already exists")

	got, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = repo.FindByID(ctx, testutil.TestPredictionID1)
	testutil.AssertErrorIs(t, err, port.ErrPredictionNotFound)
}

func TestPredictionRepository_ListRecentAndEviction(t *testing.T) {
	repo := memory.NewPredictionRepository(3)
	ctx := context.Background()

	var saved []*model.Prediction
	for i := 0; i < 4; i++ {
		p := newPrediction(t)
		require.NoError(t, repo.Save(ctx, p))
		saved = append(saved, p)
	}

	got, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, saved[3].ID(), got[0].ID())
	assert.Equal(t, saved[1].ID(), got[2].ID())

	_, err = repo.FindByID(ctx, saved[0].ID())
	assert.ErrorIs(t, err, port.ErrPredictionNotFound, "oldest evicted")

	got, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPredictionRepository_Concurrent(t *testing.T) {
	repo := memory.NewPredictionRepository(0)
	ctx := context.Background()

	predictions := make([]*model.Prediction, 20)
	for i := range predictions {
		predictions[i] = newPrediction(t)
	}

	var wg sync.WaitGroup
	for _, p := range predictions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Save(ctx, p))
			_, _ = repo.ListRecent(ctx, 5)
		}()
	}
	wg.Wait()

	got, err := repo.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
