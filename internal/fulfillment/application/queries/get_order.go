package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/projection"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/sla"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// LineItemDTO is a data transfer object for one order line.
type LineItemDTO struct {
	ProductName string
	Quantity    float64
	Unit        string
	UnitPrice   int64
	Total       int64
	Note        string
}

// AttachmentDTO is a data transfer object for a stored image reference.
type AttachmentDTO struct {
	ID          uuid.UUID
	Type        string
	Ref         string
	Description string
	CreatedAt   time.Time
}

// HistoryEntryDTO is a data transfer object for one pipeline step.
type HistoryEntryDTO struct {
	Stage     string
	EnteredAt time.Time
	EnteredBy *uuid.UUID
	Note      string
}

// OrderDetailDTO is the full read model of a single order.
type OrderDetailDTO struct {
	ID               uuid.UUID
	OrderNumber      string
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  string
	LineItems        []LineItemDTO
	Subtotal         int64
	ShippingFee      int64
	OtherFees        int64
	Total            int64
	Stage            string
	ProgressPercent  int
	Deadline         *time.Time
	RemainingMinutes *int
	Overdue          bool
	PaymentMethod    string
	ShippingType     string
	AssignedStaff    []staff.Ref
	Attachments      []AttachmentDTO
	History          []HistoryEntryDTO
	Notes            string
	FailureReason    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GetOrderQuery contains the parameters for getting a single order.
type GetOrderQuery struct {
	OrderID uuid.UUID
}

// GetOrderHandler handles the GetOrderQuery.
type GetOrderHandler struct {
	orderRepo order.Repository
	staffDir  staff.Directory
	now       func() time.Time
}

// NewGetOrderHandler creates a new GetOrderHandler.
func NewGetOrderHandler(orderRepo order.Repository, staffDir staff.Directory) *GetOrderHandler {
	return &GetOrderHandler{
		orderRepo: orderRepo,
		staffDir:  staffDir,
		now:       time.Now,
	}
}

// Handle executes the GetOrderQuery.
func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDetailDTO, error) {
	o, err := h.orderRepo.FindByID(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	assigned, err := h.staffDir.ResolveMany(ctx, o.AssignedStaff())
	if err != nil {
		return nil, err
	}

	dto := toOrderDetailDTO(o, h.now())
	dto.AssignedStaff = assigned
	return dto, nil
}

func toOrderDetailDTO(o *order.Order, now time.Time) *OrderDetailDTO {
	customer := o.Customer()

	dto := &OrderDetailDTO{
		ID:              o.ID(),
		OrderNumber:     o.OrderNumber(),
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Subtotal:        o.Subtotal(),
		ShippingFee:     o.ShippingFee(),
		OtherFees:       o.OtherFees(),
		Total:           o.Total(),
		Stage:           o.CurrentStage().String(),
		ProgressPercent: projection.ProgressPercent(o),
		Deadline:        o.Deadline(),
		PaymentMethod:   string(o.PaymentMethod()),
		Notes:           o.Notes(),
		FailureReason:   o.FailureReason(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}

	if shipping := o.Shipping(); shipping != nil {
		dto.ShippingType = string(shipping.Type)
	}

	if deadline := o.Deadline(); deadline != nil {
		remaining := int(sla.Remaining(*deadline, now) / time.Minute)
		dto.RemainingMinutes = &remaining
		dto.Overdue = now.After(*deadline)
	}

	for _, item := range o.LineItems() {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total(),
			Note:        item.Note,
		})
	}

	for _, att := range o.Attachments() {
		dto.Attachments = append(dto.Attachments, AttachmentDTO{
			ID:          att.ID,
			Type:        string(att.Type),
			Ref:         att.Ref,
			Description: att.Description,
			CreatedAt:   att.CreatedAt,
		})
	}

	for _, entry := range o.History() {
		dto.History = append(dto.History, HistoryEntryDTO{
			Stage:     entry.Stage.String(),
			EnteredAt: entry.EnteredAt,
			EnteredBy: entry.EnteredBy,
			Note:      entry.Note,
		})
	}

	return dto
}
