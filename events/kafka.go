package events

import (
	"context"
	"fmt"
	"storefront/models"
	"time"

	sdk "github.com/segmentio/kafka-go"
)

// KafkaPublisherParams configures the Kafka publisher
type KafkaPublisherParams struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaPublisher writes event envelopes to a Kafka topic keyed by aggregate ID,
// so every event of one order lands on the same partition. The outbox dispatches
// a batch concurrently and retries failures later, so consumers must not rely on
// partition order and should order by the envelope's occurred_at instead.
type KafkaPublisher struct {
	writer *sdk.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(params KafkaPublisherParams) *KafkaPublisher {
	if params.WriteTimeout <= 0 {
		params.WriteTimeout = 10 * time.Second
	}

	return &KafkaPublisher{
		writer: &sdk.Writer{
			Addr:                   sdk.TCP(params.Brokers...),
			Topic:                  params.Topic,
			RequiredAcks:           sdk.RequireAll,
			Balancer:               &sdk.Hash{},
			WriteTimeout:           params.WriteTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *models.OutboxEvent) error {
	msg, err := kafkaMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event %s: %w", event.ID, err)
	}
	return nil
}

func kafkaMessage(event *models.OutboxEvent) (sdk.Message, error) {
	value, err := Encode(event)
	if err != nil {
		return sdk.Message{}, fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	return sdk.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Headers: []sdk.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
