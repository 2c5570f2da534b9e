package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/eventbus"
)

type mockConsumer struct {
	eventTypes []string
	events     []*eventbus.ConsumedEvent
	err        error
}

func (m *mockConsumer) EventTypes() []string {
	return m.eventTypes
}

func (m *mockConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestConsumerRegistry_Register(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.created", "fulfillment.order.stage_changed"},
	}

	registry.Register(consumer)

	assert.Len(t, registry.GetConsumers("fulfillment.order.created"), 1)
	assert.Len(t, registry.GetConsumers("fulfillment.order.stage_changed"), 1)
	assert.Empty(t, registry.GetConsumers("unknown.event.type"))
}

func TestConsumerRegistry_MultipleConsumers(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	consumer1 := &mockConsumer{
		eventTypes: []string{"fulfillment.order.stage_changed"},
	}
	consumer2 := &mockConsumer{
		eventTypes: []string{"fulfillment.order.stage_changed", "fulfillment.order.assigned"},
	}

	registry.Register(consumer1)
	registry.Register(consumer2)

	assert.Len(t, registry.GetConsumers("fulfillment.order.stage_changed"), 2)
	assert.Len(t, registry.GetConsumers("fulfillment.order.assigned"), 1)
}

func TestConsumerRegistry_Dispatch(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.created"},
	}
	registry.Register(consumer)

	event := &eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "Order",
		RoutingKey:    "fulfillment.order.created",
	}

	err := registry.Dispatch(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, consumer.events, 1)
	assert.Equal(t, event.EventID, consumer.events[0].EventID)
}

func TestConsumerRegistry_DispatchNoConsumers(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	event := &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: "unknown.event.type",
	}

	require.NoError(t, registry.Dispatch(context.Background(), event))
}

func TestConsumerRegistry_DispatchContinuesAfterError(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	consumer1 := &mockConsumer{
		eventTypes: []string{"fulfillment.order.stage_changed"},
		err:        errors.New("consumer 1 error"),
	}
	consumer2 := &mockConsumer{
		eventTypes: []string{"fulfillment.order.stage_changed"},
	}

	registry.Register(consumer1)
	registry.Register(consumer2)

	event := &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: "fulfillment.order.stage_changed",
	}

	err := registry.Dispatch(context.Background(), event)

	assert.Error(t, err)
	assert.Len(t, consumer1.events, 1)
	assert.Len(t, consumer2.events, 1, "one failing consumer must not starve the rest")
}

func TestConsumerRegistry_GetAllEventTypes(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	consumer := &mockConsumer{
		eventTypes: []string{"fulfillment.order.created", "fulfillment.order.assigned"},
	}
	registry.Register(consumer)

	eventTypes := registry.GetAllEventTypes()
	assert.Len(t, eventTypes, 2)
	assert.Contains(t, eventTypes, "fulfillment.order.created")
	assert.Contains(t, eventTypes, "fulfillment.order.assigned")
}

func TestConsumerRegistry_ConsumerCount(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(testLogger())

	assert.Equal(t, 0, registry.ConsumerCount())

	registry.Register(&mockConsumer{eventTypes: []string{"fulfillment.order.created"}})
	assert.Equal(t, 1, registry.ConsumerCount())

	registry.Register(&mockConsumer{
		eventTypes: []string{"fulfillment.order.created", "fulfillment.order.items_updated"},
	})
	assert.Equal(t, 3, registry.ConsumerCount())
}
