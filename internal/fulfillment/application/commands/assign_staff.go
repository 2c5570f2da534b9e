package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
)

// AssignStaffCommand replaces the order's assigned staff wholesale.
// An empty Assignees list clears the assignment.
type AssignStaffCommand struct {
	OrderID   uuid.UUID
	StaffID   uuid.UUID
	Assignees []uuid.UUID
}

// AssignStaffHandler handles the AssignStaffCommand.
type AssignStaffHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewAssignStaffHandler creates a new AssignStaffHandler.
func NewAssignStaffHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AssignStaffHandler {
	return &AssignStaffHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the AssignStaffCommand.
func (h *AssignStaffHandler) Handle(ctx context.Context, cmd AssignStaffCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		o, err := h.orderRepo.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		o.ReplaceAssignees(cmd.Assignees)

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		return stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID)
	})
}
