package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibbank/safepay/internal/application/usecase"
	"github.com/bibbank/safepay/internal/domain/service"
	"github.com/bibbank/safepay/internal/infrastructure/config"
	"github.com/bibbank/safepay/internal/infrastructure/insights"
	"github.com/bibbank/safepay/internal/infrastructure/ml"
	grpcpresentation "github.com/bibbank/safepay/internal/presentation/grpc"
	"github.com/bibbank/safepay/internal/presentation/rest"
	"github.com/bibbank/safepay/pkg/observability"
	"github.com/bibbank/safepay/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	logger.Info("starting safepay fraud service",
		"http_port", cfg.HTTP.Port,
		"grpc_port", cfg.GRPC.Port,
		"environment", cfg.Environment,
	)

	// Tracing is optional.
	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	// Model artifacts. A missing artifact degrades to the rule classifier; a
	// corrupt one keeps the service up but every prediction fails.
	model := ml.Load(ml.Paths{Classifier: cfg.Model.ClassifierPath, Scaler: cfg.Model.ScalerPath}, logger)

	catalog, err := insights.Load(cfg.Insights.File)
	if err != nil {
		logger.Error("failed to load insights catalog", "error", err)
		os.Exit(1)
	}

	// Wire infrastructure adapters.
	infra, err := newInfrastructure(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	jwtService, err := newJWTService(cfg.Auth)
	if err != nil {
		logger.Error("failed to initialize authentication", "error", err)
		os.Exit(1)
	}

	// Wire domain services and use cases.
	engine := service.NewInferenceEngine(model.Classifier, model.Scaler, model.Source, logger)

	predictUC := usecase.NewPredictTransaction(infra.repo, infra.publisher, infra.cache, engine, logger)
	getPredictionUC := usecase.NewGetPrediction(infra.repo)
	modelInfoUC := usecase.NewGetModelInfo(usecase.ModelStatus{
		LoadErr: model.LoadErr,
		Source:  model.Source,
		Kind:    model.Kind,
		Ready:   model.Ready(),
	})
	useCases := rest.UseCases{
		Predict:   predictUC,
		Get:       getPredictionUC,
		List:      usecase.NewListPredictions(infra.repo),
		Validate:  usecase.NewValidateTransaction(),
		Insights:  usecase.NewGetInsights(catalog),
		ModelInfo: modelInfoUC,
	}

	tlsFiles := tlsutil.Files{Cert: cfg.TLS.CertFile, Key: cfg.TLS.KeyFile, ClientCA: cfg.TLS.ClientCAFile}

	// gRPC server.
	grpcHandler := grpcpresentation.NewFraudServiceHandler(predictUC, getPredictionUC, logger, jwtService != nil)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:    cfg.GRPCAddress(),
		TLS:        tlsFiles,
		Reflection: cfg.GRPC.Reflection,
		JWT:        jwtService,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	modelReady := func(context.Context) error {
		if !model.Ready() {
			return model.LoadErr
		}
		return nil
	}
	checks := append([]rest.ReadinessCheck{{Name: "model", Check: modelReady}}, infra.checks...)

	var limiter *rate.Limiter
	if rl := cfg.HTTP.RateLimit; rl.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.Burst)
	}

	router := rest.NewRouter(rest.RouterConfig{
		Predictions: rest.NewPredictionHandler(useCases, logger),
		Health:      rest.NewHealthHandler(cfg.ServiceName, logger, checks...),
		Metrics:     metricsHandler,
		Limiter:     limiter,
		JWT:         jwtService,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
	if tlsFiles.Enabled() {
		httpServer.TLSConfig, err = tlsutil.ServerConfig(tlsFiles)
		if err != nil {
			logger.Error("failed to load HTTP TLS configuration", "error", err)
			os.Exit(1)
		}
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress(), "tls", tlsFiles.Enabled())
		var err error
		if tlsFiles.Enabled() {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("safepay fraud service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"model_source", model.Source.String(),
		"model_kind", model.Kind,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down safepay fraud service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("safepay fraud service stopped")
}
