package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/infrastructure/cache"
	"github.com/bibbank/safepay/internal/infrastructure/config"
	"github.com/bibbank/safepay/internal/infrastructure/memory"
	"github.com/bibbank/safepay/internal/infrastructure/messaging"
	"github.com/bibbank/safepay/internal/infrastructure/postgres"
	"github.com/bibbank/safepay/internal/presentation/rest"
	"github.com/bibbank/safepay/pkg/auth"
	"github.com/bibbank/safepay/pkg/kafka"
	pgpkg "github.com/bibbank/safepay/pkg/postgres"
)

// infrastructure holds the adapters selected by configuration. Every
// optional backend falls back to an in-process one.
type infrastructure struct {
	repo      port.PredictionRepository
	publisher port.EventPublisher
	cache     port.PredictionCache
	checks    []rest.ReadinessCheck
	closers   []func()
}

func (i *infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

func newInfrastructure(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{}

	if cfg.Database.URL != "" {
		dbCfg := pgpkg.Config{URL: cfg.Database.URL, MaxConns: cfg.Database.MaxConns, MinConns: cfg.Database.MinConns}
		if err := pgpkg.RunMigrations(dbCfg.DSN(), postgres.Migrations, postgres.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		pool, err := pgpkg.NewPool(ctx, dbCfg)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		infra.closers = append(infra.closers, pool.Close)
		infra.repo = postgres.NewPredictionRepository(pool)
		infra.checks = append(infra.checks, rest.ReadinessCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return pgpkg.HealthCheck(ctx, pool) },
		})
		logger.Info("connected to database, prediction history is persistent")
	} else {
		infra.repo = memory.NewPredictionRepository(memory.DefaultCapacity)
		logger.Info("no database configured, prediction history is kept in memory")
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		infra.closers = append(infra.closers, func() { _ = client.Close() })
		verdicts := cache.NewPredictionCache(client, cfg.Redis.TTL, logger)
		infra.cache = verdicts
		infra.checks = append(infra.checks, rest.ReadinessCheck{Name: "redis", Check: verdicts.Ping})
		logger.Info("prediction cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(kafka.Config{
			Brokers:       cfg.Kafka.Brokers,
			ClientID:      cfg.Kafka.ClientID,
			WriteTimeout:  cfg.Kafka.WriteTimeout,
			TLS:           cfg.Kafka.TLS,
			SASLEnabled:   cfg.Kafka.SASLMechanism != "",
			SASLMechanism: cfg.Kafka.SASLMechanism,
			SASLUsername:  cfg.Kafka.SASLUsername,
			SASLPassword:  cfg.Kafka.SASLPassword,
		})
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		infra.closers = append(infra.closers, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
		infra.publisher = messaging.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		infra.publisher = messaging.NewLogPublisher(logger)
	}

	return infra, nil
}

// newJWTService returns nil when authentication is disabled.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	jwtCfg := auth.JWTConfig{Secret: cfg.JWTSecret, Issuer: cfg.Issuer}
	if cfg.JWTPublicKeyFile != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = pem
	}
	return auth.NewJWTService(jwtCfg)
}
