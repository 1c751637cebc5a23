package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "SAFEPAY_"
	envConfigFile     = "SAFEPAY_CONFIG_FILE"
	defaultConfigFile = "configs/config.yaml"
)

// Config holds all configuration for the fraud service.
type Config struct {
	Environment string         `koanf:"environment"`
	ServiceName string         `koanf:"service_name"`
	Log         LogConfig      `koanf:"log"`
	HTTP        HTTPConfig     `koanf:"http"`
	GRPC        GRPCConfig     `koanf:"grpc"`
	TLS         TLSConfig      `koanf:"tls"`
	Auth        AuthConfig     `koanf:"auth"`
	Model       ModelConfig    `koanf:"model"`
	Insights    InsightsConfig `koanf:"insights"`
	Database    DatabaseConfig `koanf:"database"`
	Redis       RedisConfig    `koanf:"redis"`
	Kafka       KafkaConfig    `koanf:"kafka"`
	Tracing     TracingConfig  `koanf:"tracing"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type HTTPConfig struct {
	Port            int             `koanf:"port"`
	ReadTimeout     time.Duration   `koanf:"read_timeout"`
	WriteTimeout    time.Duration   `koanf:"write_timeout"`
	ShutdownTimeout time.Duration   `koanf:"shutdown_timeout"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

type GRPCConfig struct {
	Port       int  `koanf:"port"`
	Reflection bool `koanf:"reflection"`
}

// TLSConfig applies to both listeners when CertFile and KeyFile are set.
type TLSConfig struct {
	CertFile     string `koanf:"cert_file"`
	KeyFile      string `koanf:"key_file"`
	ClientCAFile string `koanf:"client_ca_file"`
}

// AuthConfig enables JWT auth when either a secret or a public key is set.
type AuthConfig struct {
	JWTSecret        string `koanf:"jwt_secret"`
	JWTPublicKeyFile string `koanf:"jwt_public_key_file"`
	Issuer           string `koanf:"issuer"`
}

// Enabled reports whether requests must carry a bearer token.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.JWTPublicKeyFile != ""
}

type ModelConfig struct {
	ClassifierPath string `koanf:"classifier_path"`
	ScalerPath     string `koanf:"scaler_path"`
}

// InsightsConfig overrides the embedded statistics catalog when File is set.
type InsightsConfig struct {
	File string `koanf:"file"`
}

// DatabaseConfig selects the PostgreSQL history store when URL is set.
type DatabaseConfig struct {
	URL      string `koanf:"url"`
	MaxConns int32  `koanf:"max_conns"`
	MinConns int32  `koanf:"min_conns"`
}

// RedisConfig enables the verdict cache when Addr is set.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// KafkaConfig enables event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers       []string      `koanf:"brokers"`
	Topic         string        `koanf:"topic"`
	ClientID      string        `koanf:"client_id"`
	WriteTimeout  time.Duration `koanf:"write_timeout"`
	TLS           bool          `koanf:"tls"`
	SASLMechanism string        `koanf:"sasl_mechanism"`
	SASLUsername  string        `koanf:"sasl_username"`
	SASLPassword  string        `koanf:"sasl_password"`
}

// TracingConfig enables OTLP export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	SampleRatio float64 `koanf:"sample_ratio"`
	Insecure    bool    `koanf:"insecure"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Environment: "development",
		ServiceName: "safepay-fraud",
		Log:         LogConfig{Level: "info", Format: "json"},
		HTTP: HTTPConfig{
			Port:            9088,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       RateLimitConfig{RequestsPerSecond: 50, Burst: 100},
		},
		GRPC:  GRPCConfig{Port: 8088},
		Auth:  AuthConfig{Issuer: "safepay"},
		Model: ModelConfig{ClassifierPath: "models/xgboost_model.json", ScalerPath: "models/scaler.json"},
		Database: DatabaseConfig{
			MaxConns: 10,
			MinConns: 1,
		},
		Redis: RedisConfig{TTL: 10 * time.Minute},
		Kafka: KafkaConfig{
			Topic:        "fraud.predictions",
			ClientID:     "safepay-fraud",
			WriteTimeout: 10 * time.Second,
		},
		Tracing: TracingConfig{SampleRatio: 1.0},
	}
}

// Load merges defaults, the optional YAML file and SAFEPAY_* environment
// variables, in that order. Nested keys use a double underscore in the
// environment: SAFEPAY_HTTP__PORT sets http.port.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, explicit := os.LookupEnv(envConfigFile)
	if !explicit {
		path = defaultConfigFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// Only an explicitly requested file has to exist.
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		errs = append(errs, fmt.Errorf("grpc.port %d out of range", c.GRPC.Port))
	}
	if c.HTTP.RateLimit.RequestsPerSecond < 0 || c.HTTP.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("http.rate_limit must not be negative"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, fmt.Errorf("tls.cert_file and tls.key_file must be set together"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, fmt.Errorf("kafka.topic is required when brokers are set"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be in [0,1]"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%d", c.GRPC.Port)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}
