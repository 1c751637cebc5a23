package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/safepay/internal/infrastructure/config"
)

func isolate(t *testing.T) {
	t.Helper()
	// Point at a directory without configs/config.yaml.
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9088", cfg.HTTPAddress())
	assert.Equal(t, ":8088", cfg.GRPCAddress())
	assert.Equal(t, "fraud.predictions", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, "models/xgboost_model.json", cfg.Model.ClassifierPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SAFEPAY_HTTP__PORT", "9999")
	t.Setenv("SAFEPAY_KAFKA__BROKERS", "k1:9092,k2:9092")
	t.Setenv("SAFEPAY_REDIS__TTL", "30s")
	t.Setenv("SAFEPAY_AUTH__JWT_SECRET", "s3cret")
	t.Setenv("SAFEPAY_LOG__LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "safepay.yaml")
	doc := "grpc:\n  port: 7070\n  reflection: true\nmodel:\n  classifier_path: /srv/model.json\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("SAFEPAY_CONFIG_FILE", path)
	t.Setenv("SAFEPAY_GRPC__PORT", "7171")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7171, cfg.GRPC.Port, "environment wins over file")
	assert.True(t, cfg.GRPC.Reflection)
	assert.Equal(t, "/srv/model.json", cfg.Model.ClassifierPath)
	assert.Equal(t, "models/scaler.json", cfg.Model.ScalerPath)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	t.Setenv("SAFEPAY_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad http port", func(c *config.Config) { c.HTTP.Port = 0 }},
		{"bad grpc port", func(c *config.Config) { c.GRPC.Port = 70000 }},
		{"half tls", func(c *config.Config) { c.TLS.CertFile = "server.pem" }},
		{"brokers without topic", func(c *config.Config) { c.Kafka.Brokers = []string{"k:9092"}; c.Kafka.Topic = "" }},
		{"sample ratio", func(c *config.Config) { c.Tracing.SampleRatio = 2 }},
		{"negative rate", func(c *config.Config) { c.HTTP.RateLimit.Burst = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := config.Defaults()
	assert.NoError(t, cfg.Validate())

	cfg.Tracing.SampleRatio = 0
	assert.NoError(t, cfg.Validate(), "zero disables sampling")
}
