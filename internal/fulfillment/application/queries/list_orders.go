package queries

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/projection"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// OrderSummaryDTO is the board row for one order.
type OrderSummaryDTO struct {
	ID               uuid.UUID
	OrderNumber      string
	CustomerName     string
	Stage            string
	ProgressPercent  int
	Total            int64
	Deadline         *time.Time
	RemainingMinutes *int
	Overdue          bool
	AssignedStaff    []uuid.UUID
	CreatedAt        time.Time
}

// ListOrdersQuery contains the parameters for listing orders.
type ListOrdersQuery struct {
	Stage       string     // filter by current stage, "" for all
	AssignedTo  *uuid.UUID // filter by assigned staff member
	OverdueOnly bool       // only orders past their stage deadline
	ActiveOnly  bool       // exclude completed and failed orders
	Limit       int        // max number of orders to return (0 = no limit)
}

// ListOrdersHandler handles the ListOrdersQuery.
type ListOrdersHandler struct {
	orderRepo order.Repository
	now       func() time.Time
}

// NewListOrdersHandler creates a new ListOrdersHandler.
func NewListOrdersHandler(orderRepo order.Repository) *ListOrdersHandler {
	return &ListOrdersHandler{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// Handle executes the ListOrdersQuery.
func (h *ListOrdersHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummaryDTO, error) {
	filter := order.ListFilter{AssignedTo: query.AssignedTo}

	if query.Stage != "" {
		id := stage.ID(query.Stage)
		if _, err := stage.ByID(id); err != nil {
			return nil, err
		}
		filter.Stage = &id
	}

	orders, err := h.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := h.now()

	if query.ActiveOnly {
		orders = filterActive(orders)
	}
	if query.OverdueOnly {
		orders = filterOverdue(orders, now)
	}

	// Most urgent first: earliest deadline, then undated by creation time.
	sort.SliceStable(orders, func(i, j int) bool {
		di, dj := orders[i].Deadline(), orders[j].Deadline()
		switch {
		case di != nil && dj != nil:
			return di.Before(*dj)
		case di != nil:
			return true
		case dj != nil:
			return false
		default:
			return orders[i].CreatedAt().Before(orders[j].CreatedAt())
		}
	})

	if query.Limit > 0 && len(orders) > query.Limit {
		orders = orders[:query.Limit]
	}

	return toOrderSummaryDTOs(orders, now), nil
}

func filterActive(orders []*order.Order) []*order.Order {
	var filtered []*order.Order
	for _, o := range orders {
		if !o.IsTerminal() {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

func filterOverdue(orders []*order.Order, now time.Time) []*order.Order {
	var filtered []*order.Order
	for _, o := range orders {
		if deadline := o.Deadline(); deadline != nil && now.After(*deadline) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

func toOrderSummaryDTOs(orders []*order.Order, now time.Time) []OrderSummaryDTO {
	out := make([]OrderSummaryDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderSummaryDTO(o, now))
	}
	return out
}

func toOrderSummaryDTO(o *order.Order, now time.Time) OrderSummaryDTO {
	dto := OrderSummaryDTO{
		ID:              o.ID(),
		OrderNumber:     o.OrderNumber(),
		CustomerName:    o.Customer().Name,
		Stage:           o.CurrentStage().String(),
		ProgressPercent: projection.ProgressPercent(o),
		Total:           o.Total(),
		Deadline:        o.Deadline(),
		AssignedStaff:   o.AssignedStaff(),
		CreatedAt:       o.CreatedAt(),
	}

	if deadline := o.Deadline(); deadline != nil {
		remaining := int(deadline.Sub(now) / time.Minute)
		dto.RemainingMinutes = &remaining
		dto.Overdue = now.After(*deadline)
	}

	return dto
}
