package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
)

func TestUpdateLineItemsHandler_Handle(t *testing.T) {
	staffID := uuid.New()
	orderID := uuid.New()

	t.Run("successfully replaces items and recomputes totals", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateLineItemsHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		existing := pipelineOrder(staffID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(existing, nil)
		orderRepo.On("Save", txCtx, mock.AnythingOfType("*order.Order")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, UpdateLineItemsCommand{
			OrderID: orderID,
			StaffID: staffID,
			Items: []order.LineItem{
				{ProductName: "Lobster", Quantity: 2.1, Unit: "kg", UnitPrice: 1_650_000},
				{ProductName: "Oyster", Quantity: 12, Unit: "pc", UnitPrice: 35_000},
			},
			ShippingFee: 30_000,
			OtherFees:   10_000,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, int64(3_465_000+420_000), result.Subtotal)
		assert.Equal(t, int64(3_465_000+420_000+30_000+10_000), result.Total)
		assert.Len(t, existing.LineItems(), 2)

		uow.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("rejects an empty item list", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateLineItemsHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		existing := pipelineOrder(staffID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(existing, nil)

		result, err := handler.Handle(ctx, UpdateLineItemsCommand{
			OrderID: orderID,
			StaffID: staffID,
		})

		assert.ErrorIs(t, err, order.ErrNoLineItems)
		assert.Nil(t, result)
		assert.Len(t, existing.LineItems(), 1)

		uow.AssertExpectations(t)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
