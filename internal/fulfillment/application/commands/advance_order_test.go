package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

func TestAdvanceOrderHandler_Handle(t *testing.T) {
	staffID := uuid.New()
	orderID := uuid.New()

	t.Run("successfully advances to weighing", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewAdvanceOrderHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		existing := pipelineOrder(staffID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(existing, nil)
		orderRepo.On("Save", txCtx, mock.AnythingOfType("*order.Order")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, AdvanceOrderCommand{
			OrderID:   orderID,
			StaffID:   staffID,
			To:        stage.Weighing,
			Confirmed: true,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, stage.Weighing, result.Stage)
		assert.NotNil(t, result.Deadline)
		assert.Equal(t, stage.Weighing, existing.CurrentStage())

		uow.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("rejects unconfirmed transition without persisting", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewAdvanceOrderHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		existing := pipelineOrder(staffID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(existing, nil)

		result, err := handler.Handle(ctx, AdvanceOrderCommand{
			OrderID: orderID,
			StaffID: staffID,
			To:      stage.Weighing,
		})

		var incomplete *order.IncompleteTransitionError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, "confirmation", incomplete.Field)
		assert.Nil(t, result)
		assert.Equal(t, stage.Created, existing.CurrentStage())

		uow.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when order not found", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewAdvanceOrderHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(nil, errors.New("order not found"))

		result, err := handler.Handle(ctx, AdvanceOrderCommand{
			OrderID:   orderID,
			StaffID:   staffID,
			To:        stage.Weighing,
			Confirmed: true,
		})

		assert.Error(t, err)
		assert.Nil(t, result)

		uow.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})
}

func TestCancelOrderHandler_Handle(t *testing.T) {
	staffID := uuid.New()
	orderID := uuid.New()

	t.Run("successfully cancels with a reason", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewCancelOrderHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		existing := pipelineOrder(staffID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(existing, nil)
		orderRepo.On("Save", txCtx, mock.AnythingOfType("*order.Order")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		err := handler.Handle(ctx, CancelOrderCommand{
			OrderID: orderID,
			StaffID: staffID,
			Reason:  "customer cancelled by phone",
		})

		require.NoError(t, err)
		assert.Equal(t, stage.Failed, existing.CurrentStage())
		assert.Equal(t, "customer cancelled by phone", existing.FailureReason())

		uow.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("rejects empty reason", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewCancelOrderHandler(orderRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		existing := pipelineOrder(staffID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		orderRepo.On("FindByID", txCtx, orderID).Return(existing, nil)

		err := handler.Handle(ctx, CancelOrderCommand{
			OrderID: orderID,
			StaffID: staffID,
		})

		assert.ErrorIs(t, err, order.ErrInvalidFailureReason)
		assert.Equal(t, stage.Created, existing.CurrentStage())

		uow.AssertExpectations(t)
	})
}
