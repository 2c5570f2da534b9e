package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
)

// DeleteOrderCommand removes an order and everything it owns.
type DeleteOrderCommand struct {
	OrderID uuid.UUID
	StaffID uuid.UUID
}

// DeleteOrderHandler handles the DeleteOrderCommand.
type DeleteOrderHandler struct {
	orderRepo order.Repository
	uow       sharedApplication.UnitOfWork
}

// NewDeleteOrderHandler creates a new DeleteOrderHandler.
func NewDeleteOrderHandler(orderRepo order.Repository, uow sharedApplication.UnitOfWork) *DeleteOrderHandler {
	return &DeleteOrderHandler{
		orderRepo: orderRepo,
		uow:       uow,
	}
}

// Handle executes the DeleteOrderCommand. Line items, history and
// attachment refs live inside the order row, so the single delete
// removes them with it; blob cleanup is the caller's follow-up.
func (h *DeleteOrderHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.orderRepo.Delete(txCtx, cmd.OrderID)
	})
}
