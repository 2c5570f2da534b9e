package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/sla"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// mockOrderRepo is a mock implementation of order.Repository.
type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockStaffDirectory is a mock implementation of staff.Directory.
type mockStaffDirectory struct {
	mock.Mock
}

func (m *mockStaffDirectory) Resolve(ctx context.Context, id uuid.UUID) (staff.Ref, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(staff.Ref), args.Error(1)
}

func (m *mockStaffDirectory) ResolveMany(ctx context.Context, ids []uuid.UUID) ([]staff.Ref, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]staff.Ref), args.Error(1)
}

// queryNow is the frozen clock every query fixture is measured against.
var queryNow = time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)

// orderAt rebuilds a stored order sitting in the given stage since
// enteredAt, with the deadline the stage budget implies.
func orderAt(orderNumber string, current stage.ID, enteredAt time.Time) *order.Order {
	history := []order.HistoryEntry{{Stage: stage.Created, EnteredAt: enteredAt.Add(-30 * time.Minute)}}
	if current != stage.Created {
		history = append(history, order.HistoryEntry{Stage: current, EnteredAt: enteredAt})
	} else {
		history[0].EnteredAt = enteredAt
	}

	return order.Rehydrate(order.RehydrateParams{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		Customer:    order.Customer{Name: "Quan Hai San 68", Phone: "0903334455"},
		Items: []order.LineItem{
			{ProductName: "Lobster", Quantity: 1.8, Unit: "kg", UnitPrice: 1_650_000},
		},
		ShippingFee:  25_000,
		CurrentStage: current,
		History:      history,
		Deadline:     sla.DeadlineFor(current, enteredAt),
		Version:      1,
		CreatedAt:    history[0].EnteredAt,
		UpdatedAt:    enteredAt,
	})
}
