package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
)

// RemoveAttachmentCommand deletes an image reference from an order.
type RemoveAttachmentCommand struct {
	OrderID      uuid.UUID
	StaffID      uuid.UUID
	AttachmentID uuid.UUID
}

// RemoveAttachmentHandler handles the RemoveAttachmentCommand.
type RemoveAttachmentHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewRemoveAttachmentHandler creates a new RemoveAttachmentHandler.
func NewRemoveAttachmentHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RemoveAttachmentHandler {
	return &RemoveAttachmentHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the RemoveAttachmentCommand.
func (h *RemoveAttachmentHandler) Handle(ctx context.Context, cmd RemoveAttachmentCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		o, err := h.orderRepo.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		if err := o.RemoveAttachment(cmd.AttachmentID); err != nil {
			return err
		}

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		return stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID)
	})
}
