package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/projection"
)

// StageTimeDTO is the timing of one pipeline step.
type StageTimeDTO struct {
	Stage          string
	EnteredAt      time.Time
	ElapsedMinutes int
	Overdue        bool
	Warning        bool
}

// OrderProgressDTO is the per-stage timing view of one order.
type OrderProgressDTO struct {
	OrderID          uuid.UUID
	OrderNumber      string
	Stage            string
	ProgressPercent  int
	Deadline         *time.Time
	RemainingMinutes *int
	Stages           []StageTimeDTO
}

// OrderProgressQuery contains the parameters for the progress view.
type OrderProgressQuery struct {
	OrderID uuid.UUID
}

// OrderProgressHandler handles the OrderProgressQuery.
type OrderProgressHandler struct {
	orderRepo order.Repository
	now       func() time.Time
}

// NewOrderProgressHandler creates a new OrderProgressHandler.
func NewOrderProgressHandler(orderRepo order.Repository) *OrderProgressHandler {
	return &OrderProgressHandler{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// Handle executes the OrderProgressQuery.
func (h *OrderProgressHandler) Handle(ctx context.Context, query OrderProgressQuery) (*OrderProgressDTO, error) {
	o, err := h.orderRepo.FindByID(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	now := h.now()

	dto := &OrderProgressDTO{
		OrderID:         o.ID(),
		OrderNumber:     o.OrderNumber(),
		Stage:           o.CurrentStage().String(),
		ProgressPercent: projection.ProgressPercent(o),
		Deadline:        o.Deadline(),
	}

	if deadline := o.Deadline(); deadline != nil {
		remaining := int(deadline.Sub(now) / time.Minute)
		dto.RemainingMinutes = &remaining
	}

	for _, st := range projection.StageBreakdown(o, now) {
		dto.Stages = append(dto.Stages, StageTimeDTO{
			Stage:          st.Stage.String(),
			EnteredAt:      st.EnteredAt,
			ElapsedMinutes: st.ElapsedMinutes,
			Overdue:        st.Overdue,
			Warning:        st.Warning,
		})
	}

	return dto, nil
}
