package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/shared/domain"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/eventbus"
)

// Message is a domain event staged for publishing. Rows live in the
// outbox table and are written in the same transaction as the aggregate
// they describe.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage serializes a domain event into an outbox message.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.RoutingKey(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// Envelope wraps the staged payload into the wire format consumers
// decode, carrying the identity columns alongside the event body.
func (m *Message) Envelope() ([]byte, error) {
	event := eventbus.ConsumedEvent{
		EventID:       m.EventID,
		AggregateID:   m.AggregateID,
		AggregateType: m.AggregateType,
		RoutingKey:    m.RoutingKey,
		OccurredAt:    m.CreatedAt,
		Payload:       m.Payload,
	}

	if len(m.Metadata) > 0 {
		var metadata domain.EventMetadata
		if err := json.Unmarshal(m.Metadata, &metadata); err == nil {
			event.Metadata = eventbus.EventMetadata{
				StaffID:       metadata.StaffID,
				CorrelationID: metadata.CorrelationID.String(),
				CausationID:   metadata.CausationID.String(),
			}
		}
	}

	return json.Marshal(event)
}

// IsPublished reports whether the message has been published.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}

// CanRetry reports whether the message is still under the retry cap.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.RetryCount < maxRetries
}
