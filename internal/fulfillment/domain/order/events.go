package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
	"github.com/tuanvu/seaops/internal/shared/domain"
)

const (
	AggregateType = "Order"

	RoutingKeyCreated           = "fulfillment.order.created"
	RoutingKeyStageChanged      = "fulfillment.order.stage_changed"
	RoutingKeyAssigned          = "fulfillment.order.assigned"
	RoutingKeyAttachmentAdded   = "fulfillment.order.attachment_added"
	RoutingKeyAttachmentRemoved = "fulfillment.order.attachment_removed"
	RoutingKeyItemsUpdated      = "fulfillment.order.items_updated"
)

// OrderCreated is emitted when a new order enters the pipeline.
type OrderCreated struct {
	domain.BaseEvent
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
}

// NewOrderCreated creates an OrderCreated event.
func NewOrderCreated(orderID uuid.UUID, orderNumber, customerName string) *OrderCreated {
	return &OrderCreated{
		BaseEvent:    domain.NewBaseEvent(orderID, AggregateType, RoutingKeyCreated),
		OrderNumber:  orderNumber,
		CustomerName: customerName,
	}
}

// OrderStageChanged is emitted once per committed transition, including
// cancellation to the failed stage.
type OrderStageChanged struct {
	domain.BaseEvent
	From          stage.ID   `json:"from"`
	To            stage.ID   `json:"to"`
	EnteredAt     time.Time  `json:"entered_at"`
	EnteredBy     *uuid.UUID `json:"entered_by,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// NewOrderStageChanged creates an OrderStageChanged event.
func NewOrderStageChanged(orderID uuid.UUID, from, to stage.ID, entry HistoryEntry, deadline *time.Time, failureReason string) *OrderStageChanged {
	return &OrderStageChanged{
		BaseEvent:     domain.NewBaseEvent(orderID, AggregateType, RoutingKeyStageChanged),
		From:          from,
		To:            to,
		EnteredAt:     entry.EnteredAt,
		EnteredBy:     entry.EnteredBy,
		Deadline:      deadline,
		FailureReason: failureReason,
	}
}

// OrderAssigned is emitted when the assigned staff set is replaced.
type OrderAssigned struct {
	domain.BaseEvent
	StaffIDs []uuid.UUID `json:"staff_ids"`
}

// NewOrderAssigned creates an OrderAssigned event.
func NewOrderAssigned(orderID uuid.UUID, staffIDs []uuid.UUID) *OrderAssigned {
	return &OrderAssigned{
		BaseEvent: domain.NewBaseEvent(orderID, AggregateType, RoutingKeyAssigned),
		StaffIDs:  staffIDs,
	}
}

// AttachmentAdded is emitted when an image is stored against the order.
type AttachmentAdded struct {
	domain.BaseEvent
	AttachmentID uuid.UUID       `json:"attachment_id"`
	ImageType    stage.ImageType `json:"image_type"`
}

// NewAttachmentAdded creates an AttachmentAdded event.
func NewAttachmentAdded(orderID, attachmentID uuid.UUID, imageType stage.ImageType) *AttachmentAdded {
	return &AttachmentAdded{
		BaseEvent:    domain.NewBaseEvent(orderID, AggregateType, RoutingKeyAttachmentAdded),
		AttachmentID: attachmentID,
		ImageType:    imageType,
	}
}

// AttachmentRemoved is emitted when an image is deleted from the order.
type AttachmentRemoved struct {
	domain.BaseEvent
	AttachmentID uuid.UUID       `json:"attachment_id"`
	ImageType    stage.ImageType `json:"image_type"`
}

// NewAttachmentRemoved creates an AttachmentRemoved event.
func NewAttachmentRemoved(orderID, attachmentID uuid.UUID, imageType stage.ImageType) *AttachmentRemoved {
	return &AttachmentRemoved{
		BaseEvent:    domain.NewBaseEvent(orderID, AggregateType, RoutingKeyAttachmentRemoved),
		AttachmentID: attachmentID,
		ImageType:    imageType,
	}
}

// LineItemsUpdated is emitted when line items or fees change.
type LineItemsUpdated struct {
	domain.BaseEvent
	ItemCount int   `json:"item_count"`
	Total     int64 `json:"total"`
}

// NewLineItemsUpdated creates a LineItemsUpdated event.
func NewLineItemsUpdated(orderID uuid.UUID, itemCount int, total int64) *LineItemsUpdated {
	return &LineItemsUpdated{
		BaseEvent: domain.NewBaseEvent(orderID, AggregateType, RoutingKeyItemsUpdated),
		ItemCount: itemCount,
		Total:     total,
	}
}
