package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

func TestGetOrderHandler_Handle(t *testing.T) {
	orderID := uuid.New()

	t.Run("returns the full order view", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		staffDir := new(mockStaffDirectory)
		handler := NewGetOrderHandler(orderRepo, staffDir)
		handler.now = func() time.Time { return queryNow }

		ctx := context.Background()

		stored := orderAt("ORD-20260312-AB12", stage.Weighing, queryNow.Add(-10*time.Minute))
		assignee := uuid.New()
		stored.ReplaceAssignees([]uuid.UUID{assignee})
		stored.ClearDomainEvents()

		orderRepo.On("FindByID", ctx, orderID).Return(stored, nil)
		staffDir.On("ResolveMany", ctx, []uuid.UUID{assignee}).Return([]staff.Ref{
			{ID: assignee, FullName: "Tran Minh Duc", Role: "kitchen"},
		}, nil)

		dto, err := handler.Handle(ctx, GetOrderQuery{OrderID: orderID})

		require.NoError(t, err)
		assert.Equal(t, "ORD-20260312-AB12", dto.OrderNumber)
		assert.Equal(t, "Quan Hai San 68", dto.CustomerName)
		assert.Equal(t, "weighing", dto.Stage)
		assert.Equal(t, 25, dto.ProgressPercent)
		assert.Equal(t, int64(2_970_000), dto.Subtotal)
		assert.Equal(t, int64(2_995_000), dto.Total)
		require.Len(t, dto.LineItems, 1)
		assert.Equal(t, int64(2_970_000), dto.LineItems[0].Total)
		require.Len(t, dto.AssignedStaff, 1)
		assert.Equal(t, "Tran Minh Duc", dto.AssignedStaff[0].FullName)
		require.NotNil(t, dto.RemainingMinutes)
		assert.Equal(t, 10, *dto.RemainingMinutes)
		assert.False(t, dto.Overdue)
		assert.Len(t, dto.History, 2)

		orderRepo.AssertExpectations(t)
		staffDir.AssertExpectations(t)
	})

	t.Run("flags an overdue order", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		staffDir := new(mockStaffDirectory)
		handler := NewGetOrderHandler(orderRepo, staffDir)
		handler.now = func() time.Time { return queryNow }

		ctx := context.Background()

		// Weighing budget is 20 minutes; entered 30 minutes ago.
		stored := orderAt("ORD-20260312-CD34", stage.Weighing, queryNow.Add(-30*time.Minute))

		orderRepo.On("FindByID", ctx, orderID).Return(stored, nil)
		staffDir.On("ResolveMany", ctx, []uuid.UUID(nil)).Return([]staff.Ref{}, nil)

		dto, err := handler.Handle(ctx, GetOrderQuery{OrderID: orderID})

		require.NoError(t, err)
		assert.True(t, dto.Overdue)
		require.NotNil(t, dto.RemainingMinutes)
		assert.Equal(t, -10, *dto.RemainingMinutes)
	})

	t.Run("fails when order not found", func(t *testing.T) {
		orderRepo := new(mockOrderRepo)
		staffDir := new(mockStaffDirectory)
		handler := NewGetOrderHandler(orderRepo, staffDir)

		ctx := context.Background()
		orderRepo.On("FindByID", ctx, orderID).Return(nil, errors.New("order not found"))

		dto, err := handler.Handle(ctx, GetOrderQuery{OrderID: orderID})

		assert.Error(t, err)
		assert.Nil(t, dto)
	})
}
