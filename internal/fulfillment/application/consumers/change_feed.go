// Package consumers contains event subscribers for committed order
// changes. Subscribers receive events after the outbox publishes them,
// so they never sit inside the committing transaction.
package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/eventbus"
)

// DefaultFeedCapacity bounds the in-memory activity feed.
const DefaultFeedCapacity = 200

// FeedEntry is one line of the board activity feed.
type FeedEntry struct {
	OrderID    uuid.UUID
	RoutingKey string
	OccurredAt time.Time
	StaffID    uuid.UUID
	Summary    string
}

// ChangeFeed subscribes to every order event and keeps a bounded,
// newest-first activity log for the board. Duplicate deliveries are
// tolerated; the feed is informational only.
type ChangeFeed struct {
	logger   *slog.Logger
	capacity int

	mu      sync.Mutex
	entries []FeedEntry
}

// NewChangeFeed creates a feed with the default capacity.
func NewChangeFeed(logger *slog.Logger) *ChangeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeFeed{
		logger:   logger,
		capacity: DefaultFeedCapacity,
	}
}

// EventTypes returns the routing keys the feed subscribes to.
func (f *ChangeFeed) EventTypes() []string {
	return []string{
		order.RoutingKeyCreated,
		order.RoutingKeyStageChanged,
		order.RoutingKeyAssigned,
		order.RoutingKeyAttachmentAdded,
		order.RoutingKeyAttachmentRemoved,
		order.RoutingKeyItemsUpdated,
	}
}

// Handle records one committed change.
func (f *ChangeFeed) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	summary := f.summarize(event)

	f.logger.Info("order changed",
		"order_id", event.AggregateID,
		"routing_key", event.RoutingKey,
		"staff_id", event.Metadata.StaffID,
		"summary", summary,
	)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, FeedEntry{
		OrderID:    event.AggregateID,
		RoutingKey: event.RoutingKey,
		OccurredAt: event.OccurredAt,
		StaffID:    event.Metadata.StaffID,
		Summary:    summary,
	})
	if len(f.entries) > f.capacity {
		f.entries = f.entries[len(f.entries)-f.capacity:]
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (f *ChangeFeed) Recent(limit int) []FeedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]FeedEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, f.entries[i])
	}
	return out
}

func (f *ChangeFeed) summarize(event *eventbus.ConsumedEvent) string {
	switch event.RoutingKey {
	case order.RoutingKeyCreated:
		var p struct {
			OrderNumber  string `json:"order_number"`
			CustomerName string `json:"customer_name"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			return fmt.Sprintf("order %s created for %s", p.OrderNumber, p.CustomerName)
		}
	case order.RoutingKeyStageChanged:
		var p struct {
			From          string `json:"from"`
			To            string `json:"to"`
			FailureReason string `json:"failure_reason"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			if p.FailureReason != "" {
				return fmt.Sprintf("moved %s -> %s: %s", p.From, p.To, p.FailureReason)
			}
			return fmt.Sprintf("moved %s -> %s", p.From, p.To)
		}
	case order.RoutingKeyAssigned:
		var p struct {
			StaffIDs []uuid.UUID `json:"staff_ids"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			return fmt.Sprintf("assigned to %d staff member(s)", len(p.StaffIDs))
		}
	case order.RoutingKeyAttachmentAdded, order.RoutingKeyAttachmentRemoved:
		var p struct {
			ImageType string `json:"image_type"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			verb := "added"
			if event.RoutingKey == order.RoutingKeyAttachmentRemoved {
				verb = "removed"
			}
			return fmt.Sprintf("%s image %s", p.ImageType, verb)
		}
	case order.RoutingKeyItemsUpdated:
		var p struct {
			ItemCount int   `json:"item_count"`
			Total     int64 `json:"total"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			return fmt.Sprintf("line items replaced (%d items, total %d)", p.ItemCount, p.Total)
		}
	}
	return event.RoutingKey
}
