package events

import (
	"context"
	"storefront/models"
	"time"

	json "github.com/goccy/go-json"
)

// Publisher delivers outbox events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event *models.OutboxEvent) error
	Close() error
}

// Envelope is the wire form of an event
type Envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Encode wraps an outbox event in its envelope and serializes it
func Encode(event *models.OutboxEvent) ([]byte, error) {
	payload := json.RawMessage(event.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	return json.Marshal(Envelope{
		ID:          event.ID,
		Type:        event.EventType,
		AggregateID: event.AggregateID,
		OccurredAt:  event.CreatedAt.UTC(),
		Payload:     payload,
	})
}
