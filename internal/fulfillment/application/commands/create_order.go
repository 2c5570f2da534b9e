package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
)

// CreateOrderCommand contains the data needed to open a new order.
type CreateOrderCommand struct {
	StaffID         uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Items           []order.LineItem
	ShippingFee     int64
	OtherFees       int64
	Notes           string
}

// CreateOrderResult contains the identity of the created order.
type CreateOrderResult struct {
	OrderID     uuid.UUID
	OrderNumber string
	Deadline    *time.Time
}

// CreateOrderHandler handles the CreateOrderCommand.
type CreateOrderHandler struct {
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewCreateOrderHandler creates a new CreateOrderHandler.
func NewCreateOrderHandler(orderRepo order.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateOrderHandler {
	return &CreateOrderHandler{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle executes the CreateOrderCommand.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*CreateOrderResult, error) {
	var result *CreateOrderResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := h.now()
		customer := order.Customer{
			Name:    cmd.CustomerName,
			Phone:   cmd.CustomerPhone,
			Address: cmd.CustomerAddress,
		}

		staffID := cmd.StaffID
		o, err := order.NewOrder(
			order.GenerateOrderNumber(now),
			customer,
			cmd.Items,
			cmd.ShippingFee,
			cmd.OtherFees,
			&staffID,
			now,
		)
		if err != nil {
			return err
		}

		if cmd.Notes != "" {
			o.SetNotes(cmd.Notes)
		}

		if err := h.orderRepo.Save(txCtx, o); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, o, cmd.StaffID); err != nil {
			return err
		}

		result = &CreateOrderResult{
			OrderID:     o.ID(),
			OrderNumber: o.OrderNumber(),
			Deadline:    o.Deadline(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
