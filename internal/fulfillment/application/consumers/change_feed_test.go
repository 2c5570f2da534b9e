package consumers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/application/consumers"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/eventbus"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func consumedEvent(t *testing.T, routingKey string, payload any) *eventbus.ConsumedEvent {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return &eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "Order",
		RoutingKey:    routingKey,
		OccurredAt:    time.Now().UTC(),
		Payload:       body,
	}
}

func TestChangeFeed_Handle(t *testing.T) {
	t.Run("records stage change with summary", func(t *testing.T) {
		feed := consumers.NewChangeFeed(testLogger())

		event := consumedEvent(t, order.RoutingKeyStageChanged, map[string]any{
			"from": "created",
			"to":   "weighing",
		})
		require.NoError(t, feed.Handle(context.Background(), event))

		recent := feed.Recent(10)
		require.Len(t, recent, 1)
		assert.Equal(t, event.AggregateID, recent[0].OrderID)
		assert.Equal(t, "moved created -> weighing", recent[0].Summary)
	})

	t.Run("includes failure reason on cancellation", func(t *testing.T) {
		feed := consumers.NewChangeFeed(testLogger())

		event := consumedEvent(t, order.RoutingKeyStageChanged, map[string]any{
			"from":           "payment",
			"to":             "failed",
			"failure_reason": "customer cancelled by phone",
		})
		require.NoError(t, feed.Handle(context.Background(), event))

		recent := feed.Recent(1)
		require.Len(t, recent, 1)
		assert.Equal(t, "moved payment -> failed: customer cancelled by phone", recent[0].Summary)
	})

	t.Run("returns newest entries first", func(t *testing.T) {
		feed := consumers.NewChangeFeed(testLogger())

		created := consumedEvent(t, order.RoutingKeyCreated, map[string]any{
			"order_number":  "ORD-20260829-0001",
			"customer_name": "Nguyen Van An",
		})
		assigned := consumedEvent(t, order.RoutingKeyAssigned, map[string]any{
			"staff_ids": []string{uuid.NewString(), uuid.NewString()},
		})
		require.NoError(t, feed.Handle(context.Background(), created))
		require.NoError(t, feed.Handle(context.Background(), assigned))

		recent := feed.Recent(10)
		require.Len(t, recent, 2)
		assert.Equal(t, "assigned to 2 staff member(s)", recent[0].Summary)
		assert.Equal(t, "order ORD-20260829-0001 created for Nguyen Van An", recent[1].Summary)
	})

	t.Run("falls back to routing key on unknown payload", func(t *testing.T) {
		feed := consumers.NewChangeFeed(testLogger())

		event := consumedEvent(t, order.RoutingKeyItemsUpdated, "not an object")
		require.NoError(t, feed.Handle(context.Background(), event))

		recent := feed.Recent(1)
		require.Len(t, recent, 1)
		assert.Equal(t, order.RoutingKeyItemsUpdated, recent[0].Summary)
	})
}

func TestChangeFeed_ReceivesFromInProcessBus(t *testing.T) {
	feed := consumers.NewChangeFeed(testLogger())
	bus := eventbus.NewInProcessEventBus(testLogger())
	bus.RegisterConsumer(feed)

	event := consumedEvent(t, order.RoutingKeyAttachmentAdded, map[string]any{
		"attachment_id": uuid.NewString(),
		"image_type":    "weighing",
	})
	body, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), event.RoutingKey, body))

	recent := feed.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "weighing image added", recent[0].Summary)
}
