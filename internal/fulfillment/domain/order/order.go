package order

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/sla"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
	"github.com/tuanvu/seaops/internal/shared/domain"
)

var (
	ErrEmptyCustomerName    = errors.New("customer name cannot be empty")
	ErrNoLineItems          = errors.New("order needs at least one line item")
	ErrInvalidLineItem      = errors.New("line item needs a product name, a positive quantity and a non-negative price")
	ErrNegativeFee          = errors.New("fees cannot be negative")
	ErrOrderTerminal        = errors.New("order is in a terminal stage")
	ErrIllegalTransition    = errors.New("requested stage is not reachable from the current stage")
	ErrInvalidFailureReason = errors.New("cancellation requires a failure reason")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrEmptyAssignment      = errors.New("assignment requires at least one staff member")
)

// IncompleteTransitionError reports which mandatory field a transition
// request is missing.
type IncompleteTransitionError struct {
	Field string
}

func (e *IncompleteTransitionError) Error() string {
	return "incomplete transition data: missing " + e.Field
}

// Customer holds the buyer's contact details.
type Customer struct {
	Name    string
	Phone   string
	Address string
}

// LineItem is one product line on the order.
type LineItem struct {
	ProductName string
	Quantity    float64
	Unit        string
	UnitPrice   int64
	Note        string
}

// Total returns the line total in the smallest currency unit.
func (li LineItem) Total() int64 {
	return int64(math.Round(li.Quantity * float64(li.UnitPrice)))
}

// Attachment is an image stored against the order.
type Attachment struct {
	ID          uuid.UUID
	Type        stage.ImageType
	Ref         string
	Description string
	UploadedBy  *uuid.UUID
	CreatedAt   time.Time
}

// HistoryEntry records one stage entry. Entries are append-only and
// never mutated afterwards.
type HistoryEntry struct {
	Stage     stage.ID
	EnteredAt time.Time
	EnteredBy *uuid.UUID
	Note      string
}

// PaymentMethod is how the customer settled the order.
type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayTransfer PaymentMethod = "transfer"
	PayCOD      PaymentMethod = "cod"
)

// Valid reports whether the payment method is one of the accepted values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayTransfer, PayCOD:
		return true
	}
	return false
}

// ShippingType selects between a third-party shipper and a company one.
type ShippingType string

const (
	ShipExternal ShippingType = "external"
	ShipCompany  ShippingType = "company"
)

// ShippingInfo captures the delivery arrangement chosen on the
// processing → delivery edge.
type ShippingInfo struct {
	Type        ShippingType
	ShipperName string
	Phone       string // mandatory for external shipping
	ShipperID   string // mandatory for company shipping
}

// Order is the aggregate root for one fulfillment pipeline run.
type Order struct {
	domain.BaseAggregateRoot
	orderNumber   string
	customer      Customer
	items         []LineItem
	shippingFee   int64
	otherFees     int64
	currentStage  stage.ID
	history       []HistoryEntry
	assigned      []uuid.UUID
	attachments   []Attachment
	deadline      *time.Time
	notes         string
	failureReason string
	paymentMethod PaymentMethod
	shipping      *ShippingInfo
}

// NewOrder creates an order at the first pipeline stage with its
// initial history entry and deadline.
func NewOrder(orderNumber string, customer Customer, items []LineItem, shippingFee, otherFees int64, createdBy *uuid.UUID, now time.Time) (*Order, error) {
	if strings.TrimSpace(customer.Name) == "" {
		return nil, ErrEmptyCustomerName
	}
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	for _, li := range items {
		if strings.TrimSpace(li.ProductName) == "" || li.Quantity <= 0 || li.UnitPrice < 0 {
			return nil, ErrInvalidLineItem
		}
	}
	if shippingFee < 0 || otherFees < 0 {
		return nil, ErrNegativeFee
	}

	o := &Order{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		orderNumber:       orderNumber,
		customer:          customer,
		items:             append([]LineItem(nil), items...),
		shippingFee:       shippingFee,
		otherFees:         otherFees,
		currentStage:      stage.Created,
		history: []HistoryEntry{
			{Stage: stage.Created, EnteredAt: now, EnteredBy: createdBy},
		},
	}
	o.deadline = sla.DeadlineFor(stage.Created, now)

	o.AddDomainEvent(NewOrderCreated(o.ID(), o.orderNumber, customer.Name))

	return o, nil
}

// Getters

func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) Customer() Customer           { return o.customer }
func (o *Order) LineItems() []LineItem        { return append([]LineItem(nil), o.items...) }
func (o *Order) ShippingFee() int64           { return o.shippingFee }
func (o *Order) OtherFees() int64             { return o.otherFees }
func (o *Order) CurrentStage() stage.ID       { return o.currentStage }
func (o *Order) History() []HistoryEntry      { return append([]HistoryEntry(nil), o.history...) }
func (o *Order) AssignedStaff() []uuid.UUID   { return append([]uuid.UUID(nil), o.assigned...) }
func (o *Order) Attachments() []Attachment    { return append([]Attachment(nil), o.attachments...) }
func (o *Order) Deadline() *time.Time         { return o.deadline }
func (o *Order) Notes() string                { return o.notes }
func (o *Order) FailureReason() string        { return o.failureReason }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) Shipping() *ShippingInfo      { return o.shipping }
func (o *Order) IsTerminal() bool             { return o.currentStage.IsTerminal() }

// Subtotal is the sum of all line totals.
func (o *Order) Subtotal() int64 {
	var sum int64
	for _, li := range o.items {
		sum += li.Total()
	}
	return sum
}

// Total is always recomputed from line items and fees, never stored.
func (o *Order) Total() int64 {
	return o.Subtotal() + o.shippingFee + o.otherFees
}

// SetNotes updates the free-form order notes.
func (o *Order) SetNotes(notes string) {
	o.notes = strings.TrimSpace(notes)
	o.Touch()
}

// ReplaceLineItems swaps the line items and fees wholesale. The total is
// derived, so it needs no separate update.
func (o *Order) ReplaceLineItems(items []LineItem, shippingFee, otherFees int64) error {
	if o.IsTerminal() {
		return ErrOrderTerminal
	}
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for _, li := range items {
		if strings.TrimSpace(li.ProductName) == "" || li.Quantity <= 0 || li.UnitPrice < 0 {
			return ErrInvalidLineItem
		}
	}
	if shippingFee < 0 || otherFees < 0 {
		return ErrNegativeFee
	}

	o.items = append([]LineItem(nil), items...)
	o.shippingFee = shippingFee
	o.otherFees = otherFees
	o.Touch()

	o.AddDomainEvent(NewLineItemsUpdated(o.ID(), len(items), o.Total()))

	return nil
}

// ReplaceAssignees swaps the assigned staff set wholesale. An empty set
// is legal at the aggregate level; callers that require at least one
// assignee enforce that themselves.
func (o *Order) ReplaceAssignees(staffIDs []uuid.UUID) {
	o.assigned = append([]uuid.UUID(nil), staffIDs...)
	o.Touch()

	o.AddDomainEvent(NewOrderAssigned(o.ID(), o.assigned))
}

// AddAttachment stores a new image against the order.
func (o *Order) AddAttachment(imageType stage.ImageType, ref, description string, uploadedBy *uuid.UUID, now time.Time) Attachment {
	att := Attachment{
		ID:          uuid.New(),
		Type:        imageType,
		Ref:         ref,
		Description: description,
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
	}
	o.attachments = append(o.attachments, att)
	o.Touch()

	o.AddDomainEvent(NewAttachmentAdded(o.ID(), att.ID, imageType))

	return att
}

// RemoveAttachment deletes an image by id.
func (o *Order) RemoveAttachment(attachmentID uuid.UUID) error {
	for i, att := range o.attachments {
		if att.ID == attachmentID {
			o.attachments = append(o.attachments[:i], o.attachments[i+1:]...)
			o.Touch()
			o.AddDomainEvent(NewAttachmentRemoved(o.ID(), attachmentID, att.Type))
			return nil
		}
	}
	return ErrAttachmentNotFound
}

// HasAttachment reports whether the order already holds an image of the
// given type.
func (o *Order) HasAttachment(imageType stage.ImageType) bool {
	for _, att := range o.attachments {
		if att.Type == imageType {
			return true
		}
	}
	return false
}

// RehydrateParams carries persisted state back into an aggregate.
type RehydrateParams struct {
	ID            uuid.UUID
	OrderNumber   string
	Customer      Customer
	Items         []LineItem
	ShippingFee   int64
	OtherFees     int64
	CurrentStage  stage.ID
	History       []HistoryEntry
	Assigned      []uuid.UUID
	Attachments   []Attachment
	Deadline      *time.Time
	Notes         string
	FailureReason string
	PaymentMethod PaymentMethod
	Shipping      *ShippingInfo
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Rehydrate recreates an order from storage without raising events.
func Rehydrate(p RehydrateParams) *Order {
	return &Order{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(p.ID, p.CreatedAt, p.UpdatedAt), p.Version),
		orderNumber:   p.OrderNumber,
		customer:      p.Customer,
		items:         p.Items,
		shippingFee:   p.ShippingFee,
		otherFees:     p.OtherFees,
		currentStage:  p.CurrentStage,
		history:       p.History,
		assigned:      p.Assigned,
		attachments:   p.Attachments,
		deadline:      p.Deadline,
		notes:         p.Notes,
		failureReason: p.FailureReason,
		paymentMethod: p.PaymentMethod,
		shipping:      p.Shipping,
	}
}
