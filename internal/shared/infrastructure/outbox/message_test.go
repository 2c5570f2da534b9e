package outbox_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
)

func TestNewMessage(t *testing.T) {
	orderID := uuid.New()
	event := order.NewOrderCreated(orderID, "ORD-20260312-9F2A", "Quan Bien Xanh")

	msg, err := outbox.NewMessage(event)

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "Order", msg.AggregateType)
	assert.Equal(t, orderID, msg.AggregateID)
	assert.Equal(t, "fulfillment.order.created", msg.RoutingKey)
	assert.Equal(t, msg.RoutingKey, msg.EventType)
	assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
	assert.Nil(t, msg.PublishedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, "ORD-20260312-9F2A", decoded["order_number"])
}

func TestMessage_IsPublished(t *testing.T) {
	msg := &outbox.Message{}
	assert.False(t, msg.IsPublished())

	now := msg.CreatedAt
	msg.PublishedAt = &now
	assert.True(t, msg.IsPublished())
}

func TestMessage_CanRetry(t *testing.T) {
	msg := &outbox.Message{RetryCount: 2}

	assert.True(t, msg.CanRetry(3))
	assert.False(t, msg.CanRetry(2))
	assert.False(t, msg.CanRetry(0))
}
