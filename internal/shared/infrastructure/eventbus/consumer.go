package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventConsumer handles one or more event types.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["fulfillment.order.stage_changed"].
	EventTypes() []string

	// Handle processes one event.
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumedEvent is an event as received from the bus.
type ConsumedEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata carries the tracing context of a consumed event.
type EventMetadata struct {
	StaffID       uuid.UUID `json:"staff_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CausationID   string    `json:"causation_id,omitempty"`
}

// Consumer receives events from a message broker.
type Consumer interface {
	// Start begins consuming messages. Blocks until the context ends.
	Start(ctx context.Context) error

	// RegisterConsumer subscribes an event consumer.
	RegisterConsumer(consumer EventConsumer)

	// Close releases the broker connection.
	Close() error
}
