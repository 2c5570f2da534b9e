package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/eventbus"
)

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.created"},
	}
	bus.RegisterConsumer(consumer)

	event := &eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "Order",
		RoutingKey:    "fulfillment.order.created",
		OccurredAt:    time.Now(),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "fulfillment.order.created", payload)
	require.NoError(t, err)

	require.Len(t, consumer.events, 1)
	assert.Equal(t, event.EventID, consumer.events[0].EventID)
}

func TestInProcessEventBus_PublishConsumedEvent(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.stage_changed"},
	}
	bus.RegisterConsumer(consumer)

	event := &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: "fulfillment.order.stage_changed",
	}

	err := bus.PublishConsumedEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Len(t, consumer.events, 1)
}

func TestInProcessEventBus_ConsumerError(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.created"},
		err:        errors.New("consumer error"),
	}
	bus.RegisterConsumer(consumer)

	event := &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: "fulfillment.order.created",
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "fulfillment.order.created", payload)

	require.NoError(t, err, "consumer failures are logged, not surfaced to the publisher")
	assert.Len(t, consumer.events, 1)
}

func TestInProcessEventBus_InvalidPayload(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.created"},
	}
	bus.RegisterConsumer(consumer)

	err := bus.Publish(context.Background(), "fulfillment.order.created", []byte("invalid json"))

	require.NoError(t, err)
	assert.Empty(t, consumer.events)
}

func TestInProcessEventBus_Close(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	require.NoError(t, bus.Close())
}

func TestInProcessEventBus_GetRegistry(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	assert.NotNil(t, bus.GetRegistry())
}
