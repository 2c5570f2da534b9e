package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
)

// AdvanceOrderCommand moves an order to its next pipeline stage.
type AdvanceOrderCommand struct {
	OrderID       uuid.UUID
	StaffID       uuid.UUID
	To            stage.ID
	Confirmed     bool
	Images        []order.ImageUpload
	PaymentMethod order.PaymentMethod
	Shipping      *order.ShippingInfo
	ScheduledAt   *time.Time
	Note          string
}

// AdvanceOrderResult reports the committed transition.
type AdvanceOrderResult struct {
	Stage     stage.ID
	EnteredAt time.Time
	Deadline  *time.Time
}

// AdvanceOrderHandler handles the AdvanceOrderCommand.
type AdvanceOrderHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewAdvanceOrderHandler creates a new AdvanceOrderHandler.
func NewAdvanceOrderHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AdvanceOrderHandler {
	return &AdvanceOrderHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle executes the AdvanceOrderCommand.
func (h *AdvanceOrderHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (*AdvanceOrderResult, error) {
	var result *AdvanceOrderResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		o, err := h.orderRepo.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		staffID := cmd.StaffID
		entry, err := o.Advance(order.TransitionRequest{
			To:            cmd.To,
			Confirmed:     cmd.Confirmed,
			Images:        cmd.Images,
			PaymentMethod: cmd.PaymentMethod,
			Shipping:      cmd.Shipping,
			StaffID:       &staffID,
			ScheduledAt:   cmd.ScheduledAt,
			Note:          cmd.Note,
		}, h.now())
		if err != nil {
			return err
		}

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID); err != nil {
			return err
		}

		result = &AdvanceOrderResult{
			Stage:     entry.Stage,
			EnteredAt: entry.EnteredAt,
			Deadline:  o.Deadline(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
