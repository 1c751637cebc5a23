package kafka

import "time"

// Config holds Kafka connection parameters.
type Config struct {
	ClientID string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// WriteTimeout bounds a single publish; zero uses the kafka-go default.
	WriteTimeout time.Duration

	TLS         bool
	SASLEnabled bool
}
