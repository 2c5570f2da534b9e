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

// CancelOrderCommand fails an order from any active stage.
type CancelOrderCommand struct {
	OrderID uuid.UUID
	StaffID uuid.UUID
	Reason  string
}

// CancelOrderHandler handles the CancelOrderCommand.
type CancelOrderHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewCancelOrderHandler creates a new CancelOrderHandler.
func NewCancelOrderHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CancelOrderHandler {
	return &CancelOrderHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle executes the CancelOrderCommand.
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		o, err := h.orderRepo.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		staffID := cmd.StaffID
		_, err = o.Advance(order.TransitionRequest{
			To:            stage.Failed,
			FailureReason: cmd.Reason,
			StaffID:       &staffID,
		}, h.now())
		if err != nil {
			return err
		}

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		return stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID)
	})
}
