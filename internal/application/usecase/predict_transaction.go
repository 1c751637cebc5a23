package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/service"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

const instrumentationName = "github.com/bibbank/safepay/internal/application/usecase"

// PredictTransaction is the use case for classifying a single transaction.
type PredictTransaction struct {
	repo      port.PredictionRepository
	publisher port.EventPublisher
	cache     port.PredictionCache
	engine    *service.InferenceEngine
	analyzer  *service.RiskFactorAnalyzer
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   predictionMetrics
	now       func() time.Time
}

type predictionMetrics struct {
	predictions metric.Int64Counter
	failures    metric.Int64Counter
	cacheHits   metric.Int64Counter
	duration    metric.Float64Histogram
}

func newPredictionMetrics(meter metric.Meter) (predictionMetrics, error) {
	var m predictionMetrics
	var errs []error
	var err error

	m.predictions, err = meter.Int64Counter("safepay.predictions",
		metric.WithDescription("Predictions served, by label and model source."))
	errs = append(errs, err)
	m.failures, err = meter.Int64Counter("safepay.prediction.failures",
		metric.WithDescription("Predictions that could not be served, by reason."))
	errs = append(errs, err)
	m.cacheHits, err = meter.Int64Counter("safepay.prediction.cache_hits")
	errs = append(errs, err)
	m.duration, err = meter.Float64Histogram("safepay.prediction.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Time spent producing a prediction."))
	errs = append(errs, err)

	return m, errors.Join(errs...)
}

// NewPredictTransaction creates a new PredictTransaction use case. cache may be
// nil to disable result caching.
func NewPredictTransaction(
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	cache port.PredictionCache,
	engine *service.InferenceEngine,
	logger *slog.Logger,
) *PredictTransaction {
	metrics, err := newPredictionMetrics(otel.Meter(instrumentationName))
	if err != nil {
		logger.Warn("failed to register prediction metrics", slog.String("error", err.Error()))
	}
	return &PredictTransaction{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		engine:    engine,
		analyzer:  service.NewRiskFactorAnalyzer(),
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute validates the request, runs inference, persists the prediction and
// publishes its events.
func (uc *PredictTransaction) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "PredictTransaction")
	defer span.End()
	start := time.Now()

	resp, err := uc.execute(ctx, req)
	if err != nil {
		reason := failureReason(err)
		uc.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		return dto.PredictionResponse{}, err
	}

	uc.metrics.duration.Record(ctx, time.Since(start).Seconds())
	uc.metrics.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label", resp.Label),
		attribute.String("model_source", resp.ModelSource),
	))
	span.SetAttributes(
		attribute.String("prediction.id", resp.ID.String()),
		attribute.String("prediction.label", resp.Label),
		attribute.Float64("prediction.fraud_probability", resp.Probabilities.Fraud),
	)
	return resp, nil
}

func (uc *PredictTransaction) execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.PredictionResponse{}, err
	}

	record, err := buildRecord(req.TransactionInput)
	if err != nil {
		return dto.PredictionResponse{}, err
	}
	for _, w := range record.BalanceWarnings() {
		uc.logger.Warn("balance inconsistency", slog.String("warning", w.String()), slog.Int("step", record.Step().Int()))
	}

	key := uc.engine.Source().String() + "|" + record.CacheKey()
	verdict, cached, err := uc.infer(ctx, key, record)
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	prediction, err := model.NewPrediction(
		record,
		verdict.Class,
		verdict.Probabilities,
		uc.analyzer.Analyze(record),
		verdict.Source,
		uc.now(),
	)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}

	if err := uc.repo.Save(ctx, prediction); err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to save prediction: %w", err)
	}

	if evts := prediction.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.Error("failed to publish prediction events",
				slog.String("prediction_id", prediction.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	if !cached {
		uc.remember(ctx, key, verdict)
	}

	uc.logger.Info("prediction completed",
		slog.String("prediction_id", prediction.ID().String()),
		slog.String("label", prediction.Label().String()),
		slog.String("risk_level", prediction.RiskLevel().String()),
		slog.Float64("fraud_probability", prediction.FraudProbability()),
		slog.String("model_source", prediction.ModelSource().String()),
	)

	return dto.FromModel(prediction), nil
}

// infer consults the cache before running the engine. Cache failures only
// cost a recomputation.
func (uc *PredictTransaction) infer(ctx context.Context, key string, record model.TransactionRecord) (service.Inference, bool, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, key)
		switch {
		case err != nil:
			uc.logger.Warn("prediction cache lookup failed", slog.String("error", err.Error()))
		case ok:
			if source, err := valueobject.ModelSourceFromString(cached.Source); err == nil {
				uc.metrics.cacheHits.Add(ctx, 1)
				return service.Inference{Class: cached.Class, Probabilities: cached.Probabilities, Source: source}, true, nil
			}
		}
	}

	inference, err := uc.engine.Infer(record)
	if err != nil {
		if errors.Is(err, port.ErrModelUnavailable) {
			return service.Inference{}, false, err
		}
		uc.logger.Error("inference failed", slog.String("error", err.Error()))
		return service.Inference{}, false, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}
	return inference, false, nil
}

func (uc *PredictTransaction) remember(ctx context.Context, key string, inference service.Inference) {
	if uc.cache == nil {
		return
	}
	verdict := port.CachedVerdict{
		Source:        inference.Source.String(),
		Probabilities: inference.Probabilities,
		Class:         inference.Class,
	}
	if err := uc.cache.Set(ctx, key, verdict); err != nil {
		uc.logger.Warn("prediction cache store failed", slog.String("error", err.Error()))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, valueobject.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, port.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrInferenceFailed):
		return "inference"
	default:
		return "internal"
	}
}
