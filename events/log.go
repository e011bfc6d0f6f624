package events

import (
	"context"
	"log/slog"
	"storefront/models"
)

// LogPublisher records events in the structured log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event *models.OutboxEvent) error {
	p.logger.InfoContext(ctx, "event published",
		"event_id", event.ID,
		"type", event.EventType,
		"aggregate_id", event.AggregateID,
		"payload", string(event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
