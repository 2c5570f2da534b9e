package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
)

// UpdateLineItemsCommand replaces the order's line items and fees,
// typically after actual weights come back from the scale.
type UpdateLineItemsCommand struct {
	OrderID     uuid.UUID
	StaffID     uuid.UUID
	Items       []order.LineItem
	ShippingFee int64
	OtherFees   int64
}

// UpdateLineItemsResult reports the recomputed totals.
type UpdateLineItemsResult struct {
	Subtotal int64
	Total    int64
}

// UpdateLineItemsHandler handles the UpdateLineItemsCommand.
type UpdateLineItemsHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateLineItemsHandler creates a new UpdateLineItemsHandler.
func NewUpdateLineItemsHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateLineItemsHandler {
	return &UpdateLineItemsHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateLineItemsCommand.
func (h *UpdateLineItemsHandler) Handle(ctx context.Context, cmd UpdateLineItemsCommand) (*UpdateLineItemsResult, error) {
	var result *UpdateLineItemsResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		o, err := h.orderRepo.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		if err := o.ReplaceLineItems(cmd.Items, cmd.ShippingFee, cmd.OtherFees); err != nil {
			return err
		}

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID); err != nil {
			return err
		}

		result = &UpdateLineItemsResult{
			Subtotal: o.Subtotal(),
			Total:    o.Total(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
