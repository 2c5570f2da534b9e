package order_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder("ORD-20260310-0001",
		order.Customer{Name: "Chi Lan", Phone: "0901234567", Address: "12 Tran Phu"},
		[]order.LineItem{
			{ProductName: "King crab", Quantity: 2.5, Unit: "kg", UnitPrice: 1_200_000},
			{ProductName: "Tiger prawn", Quantity: 1, Unit: "kg", UnitPrice: 450_000},
		},
		30_000, 10_000, nil, testNow)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts at the created stage with history and deadline", func(t *testing.T) {
		createdBy := uuid.New()
		o, err := order.NewOrder("ORD-20260310-0002",
			order.Customer{Name: "Anh Minh"},
			[]order.LineItem{{ProductName: "Lobster", Quantity: 1, Unit: "kg", UnitPrice: 900_000}},
			0, 0, &createdBy, testNow)

		require.NoError(t, err)
		assert.Equal(t, stage.Created, o.CurrentStage())

		history := o.History()
		require.Len(t, history, 1)
		assert.Equal(t, stage.Created, history[0].Stage)
		assert.Equal(t, testNow, history[0].EnteredAt)
		require.NotNil(t, history[0].EnteredBy)
		assert.Equal(t, createdBy, *history[0].EnteredBy)

		require.NotNil(t, o.Deadline())
		assert.Equal(t, testNow.Add(15*time.Minute), *o.Deadline())

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.RoutingKeyCreated, events[0].RoutingKey())
	})

	t.Run("rejects empty customer name", func(t *testing.T) {
		_, err := order.NewOrder("ORD-1", order.Customer{Name: "  "},
			[]order.LineItem{{ProductName: "Crab", Quantity: 1, UnitPrice: 100}}, 0, 0, nil, testNow)

		assert.ErrorIs(t, err, order.ErrEmptyCustomerName)
	})

	t.Run("rejects orders without line items", func(t *testing.T) {
		_, err := order.NewOrder("ORD-1", order.Customer{Name: "Chi Lan"}, nil, 0, 0, nil, testNow)

		assert.ErrorIs(t, err, order.ErrNoLineItems)
	})

	t.Run("rejects invalid line items", func(t *testing.T) {
		_, err := order.NewOrder("ORD-1", order.Customer{Name: "Chi Lan"},
			[]order.LineItem{{ProductName: "Crab", Quantity: 0, UnitPrice: 100}}, 0, 0, nil, testNow)

		assert.ErrorIs(t, err, order.ErrInvalidLineItem)
	})

	t.Run("rejects negative fees", func(t *testing.T) {
		_, err := order.NewOrder("ORD-1", order.Customer{Name: "Chi Lan"},
			[]order.LineItem{{ProductName: "Crab", Quantity: 1, UnitPrice: 100}}, -1, 0, nil, testNow)

		assert.ErrorIs(t, err, order.ErrNegativeFee)
	})
}

func TestOrder_Total(t *testing.T) {
	o := newTestOrder(t)

	// 2.5 × 1,200,000 + 1 × 450,000 + 30,000 + 10,000
	assert.Equal(t, int64(3_450_000), o.Subtotal())
	assert.Equal(t, int64(3_490_000), o.Total())

	t.Run("recomputation is idempotent", func(t *testing.T) {
		assert.Equal(t, o.Total(), o.Total())
	})

	t.Run("tracks line item replacement", func(t *testing.T) {
		err := o.ReplaceLineItems([]order.LineItem{
			{ProductName: "Oyster", Quantity: 12, Unit: "pc", UnitPrice: 25_000},
		}, 20_000, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(320_000), o.Total())

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.RoutingKeyItemsUpdated, events[0].RoutingKey())
	})
}

func TestOrder_ReplaceAssignees(t *testing.T) {
	o := newTestOrder(t)
	first := uuid.New()
	second := uuid.New()

	o.ReplaceAssignees([]uuid.UUID{first, second})
	assert.Equal(t, []uuid.UUID{first, second}, o.AssignedStaff())

	t.Run("replacement is wholesale, not additive", func(t *testing.T) {
		third := uuid.New()
		o.ReplaceAssignees([]uuid.UUID{third})

		assert.Equal(t, []uuid.UUID{third}, o.AssignedStaff())
	})

	t.Run("empty set is legal at the aggregate level", func(t *testing.T) {
		o.ReplaceAssignees(nil)

		assert.Empty(t, o.AssignedStaff())
	})
}

func TestOrder_Attachments(t *testing.T) {
	o := newTestOrder(t)

	att := o.AddAttachment(stage.ImageWeighing, "blob/abc", "scale photo", nil, testNow)

	assert.True(t, o.HasAttachment(stage.ImageWeighing))
	assert.False(t, o.HasAttachment(stage.ImageInvoice))
	require.Len(t, o.Attachments(), 1)

	t.Run("remove deletes by id", func(t *testing.T) {
		err := o.RemoveAttachment(att.ID)

		require.NoError(t, err)
		assert.Empty(t, o.Attachments())
		assert.False(t, o.HasAttachment(stage.ImageWeighing))
	})

	t.Run("remove fails for unknown id", func(t *testing.T) {
		err := o.RemoveAttachment(uuid.New())

		assert.ErrorIs(t, err, order.ErrAttachmentNotFound)
	})
}

func TestRehydrate(t *testing.T) {
	id := uuid.New()
	deadline := testNow.Add(20 * time.Minute)

	o := order.Rehydrate(order.RehydrateParams{
		ID:           id,
		OrderNumber:  "ORD-20260310-0042",
		Customer:     order.Customer{Name: "Chi Lan"},
		Items:        []order.LineItem{{ProductName: "Crab", Quantity: 2, UnitPrice: 500_000}},
		ShippingFee:  15_000,
		CurrentStage: stage.Weighing,
		History: []order.HistoryEntry{
			{Stage: stage.Created, EnteredAt: testNow.Add(-10 * time.Minute)},
			{Stage: stage.Weighing, EnteredAt: testNow},
		},
		Deadline:  &deadline,
		Version:   3,
		CreatedAt: testNow.Add(-10 * time.Minute),
		UpdatedAt: testNow,
	})

	assert.Equal(t, id, o.ID())
	assert.Equal(t, stage.Weighing, o.CurrentStage())
	assert.Equal(t, 3, o.Version())
	assert.Equal(t, int64(1_015_000), o.Total())
	assert.Empty(t, o.DomainEvents(), "rehydration must not raise events")
}

func TestGenerateOrderNumber(t *testing.T) {
	n := order.GenerateOrderNumber(testNow)

	assert.Regexp(t, `^ORD-20260310-[0-9A-F]{4}$`, n)
	assert.NotEqual(t, n, order.GenerateOrderNumber(testNow), "suffix should vary")
}
