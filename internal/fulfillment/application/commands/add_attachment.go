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

// AddAttachmentCommand stores an image reference against an order.
type AddAttachmentCommand struct {
	OrderID     uuid.UUID
	StaffID     uuid.UUID
	ImageType   stage.ImageType
	Ref         string
	Description string
}

// AddAttachmentResult identifies the stored attachment.
type AddAttachmentResult struct {
	AttachmentID uuid.UUID
}

// AddAttachmentHandler handles the AddAttachmentCommand.
type AddAttachmentHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewAddAttachmentHandler creates a new AddAttachmentHandler.
func NewAddAttachmentHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddAttachmentHandler {
	return &AddAttachmentHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle executes the AddAttachmentCommand.
func (h *AddAttachmentHandler) Handle(ctx context.Context, cmd AddAttachmentCommand) (*AddAttachmentResult, error) {
	var result *AddAttachmentResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		o, err := h.orderRepo.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		imageType := cmd.ImageType
		if imageType == "" {
			imageType = stage.ImageAttachment
		}

		staffID := cmd.StaffID
		att := o.AddAttachment(imageType, cmd.Ref, cmd.Description, &staffID, h.now())

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID); err != nil {
			return err
		}

		result = &AddAttachmentResult{AttachmentID: att.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
