package models

import "time"

type EventStatus string

const (
	EventPending     EventStatus = "pending"
	EventDispatching EventStatus = "dispatching"
	EventDispatched  EventStatus = "dispatched"
	EventFailed      EventStatus = "failed"
	EventAbandoned   EventStatus = "abandoned"
)

// MaxDispatchRetries is the number of failed publish attempts before an event is abandoned
const MaxDispatchRetries = 5

const (
	EventOrderPlaced           = "order.placed"
	EventOrderStatusChanged    = "order.status_changed"
	EventOrderPaymentSubmitted = "order.payment_submitted"
	EventOrderPaymentVerified  = "order.payment_verified"
	EventOrderPaymentRejected  = "order.payment_rejected"
)

// OutboxEvent is a domain event stored alongside the change that produced it
type OutboxEvent struct {
	ID            string      `json:"id"`
	AggregateID   string      `json:"aggregate_id"`
	EventType     string      `json:"event_type"`
	Payload       []byte      `json:"-"`
	Status        EventStatus `json:"status"`
	RetryCount    int         `json:"retry_count"`
	LastAttemptAt *time.Time  `json:"last_attempt_at,omitempty"`
	Error         string      `json:"error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
