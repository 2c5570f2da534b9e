package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/projection"
)

// OverdueOrderDTO identifies the single most overdue order.
type OverdueOrderDTO struct {
	ID             uuid.UUID
	OrderNumber    string
	CustomerName   string
	Stage          string
	MinutesOverdue int
}

// OverdueSummaryDTO is the fleet-wide overdue picture.
type OverdueSummaryDTO struct {
	ByStage             map[string]int
	TotalOrders         int
	TotalMinutesOverdue int
	MostOverdue         *OverdueOrderDTO
}

// OverdueSummaryQuery contains the parameters for the overdue report.
type OverdueSummaryQuery struct {
	AssignedTo *uuid.UUID // restrict to one staff member's orders
}

// OverdueSummaryHandler handles the OverdueSummaryQuery.
type OverdueSummaryHandler struct {
	orderRepo order.Repository
	now       func() time.Time
}

// NewOverdueSummaryHandler creates a new OverdueSummaryHandler.
func NewOverdueSummaryHandler(orderRepo order.Repository) *OverdueSummaryHandler {
	return &OverdueSummaryHandler{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// Handle executes the OverdueSummaryQuery.
func (h *OverdueSummaryHandler) Handle(ctx context.Context, query OverdueSummaryQuery) (*OverdueSummaryDTO, error) {
	orders, err := h.orderRepo.List(ctx, order.ListFilter{AssignedTo: query.AssignedTo})
	if err != nil {
		return nil, err
	}

	summary := projection.FleetOverdueSummary(orders, h.now())

	dto := &OverdueSummaryDTO{
		ByStage:             make(map[string]int, len(summary.ByStage)),
		TotalMinutesOverdue: summary.TotalMinutesOverdue,
	}
	for id, count := range summary.ByStage {
		dto.ByStage[id.String()] = count
		dto.TotalOrders += count
	}

	if summary.MostOverdue != nil {
		dto.MostOverdue = &OverdueOrderDTO{
			ID:             summary.MostOverdue.ID(),
			OrderNumber:    summary.MostOverdue.OrderNumber(),
			CustomerName:   summary.MostOverdue.Customer().Name,
			Stage:          summary.MostOverdue.CurrentStage().String(),
			MinutesOverdue: summary.MostOverdueMinutes,
		}
	}

	return dto, nil
}
