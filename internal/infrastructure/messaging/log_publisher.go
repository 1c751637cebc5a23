package messaging

import (
	"context"
	"log/slog"

	"github.com/bibbank/safepay/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging events. It is used
// when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new logging event publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event at info level.
func (p *LogPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, evt := range domainEvents {
		envelope, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_type", envelope.EventType),
			slog.String("event_id", envelope.ID.String()),
			slog.String("aggregate_id", envelope.AggregateID.String()),
			slog.String("payload", string(envelope.Payload)),
		)
	}
	return nil
}
