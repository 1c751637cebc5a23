// Package cache stores classifier verdicts in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/safepay/internal/domain/port"
)

const keyPrefix = "safepay:verdict:"

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient opens a Redis client and verifies it with PING.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// PredictionCache implements port.PredictionCache on Redis.
type PredictionCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewPredictionCache creates a verdict cache with the given entry TTL.
func NewPredictionCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl, logger: logger}
}

func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached verdict for key.
func (c *PredictionCache) Get(ctx context.Context, key string) (port.CachedVerdict, bool, error) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return port.CachedVerdict{}, false, nil
	}
	if err != nil {
		return port.CachedVerdict{}, false, fmt.Errorf("failed to read verdict: %w", err)
	}

	var v port.CachedVerdict
	if err := json.Unmarshal(data, &v); err != nil {
		// Treat undecodable entries as a miss so they get overwritten.
		c.logger.WarnContext(ctx, "discarding malformed cache entry", slog.String("error", err.Error()))
		return port.CachedVerdict{}, false, nil
	}
	return v, true, nil
}

// Set stores a verdict for key.
func (c *PredictionCache) Set(ctx context.Context, key string, verdict port.CachedVerdict) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write verdict: %w", err)
	}
	return nil
}

// Ping checks the connection for readiness probes.
func (c *PredictionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
