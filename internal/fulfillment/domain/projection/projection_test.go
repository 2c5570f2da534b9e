package projection_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/projection"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

var testNow = time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)

// orderAt rehydrates a minimal order sitting in the given stage with the
// given deadline, as persistence would hand it back.
func orderAt(t *testing.T, current stage.ID, history []order.HistoryEntry, deadline *time.Time) *order.Order {
	t.Helper()
	return order.Rehydrate(order.RehydrateParams{
		ID:           uuid.New(),
		OrderNumber:  "ORD-20260312-TEST",
		Customer:     order.Customer{Name: "Quan Bien Xanh"},
		Items:        []order.LineItem{{ProductName: "Sea bass", Quantity: 1, UnitPrice: 250_000}},
		CurrentStage: current,
		History:      history,
		Deadline:     deadline,
		Version:      1,
		CreatedAt:    testNow.Add(-2 * time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	})
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name    string
		current stage.ID
		history []order.HistoryEntry
		want    int
	}{
		{
			name:    "freshly created",
			current: stage.Created,
			history: []order.HistoryEntry{{Stage: stage.Created, EnteredAt: testNow}},
			want:    13,
		},
		{
			name:    "halfway through",
			current: stage.Payment,
			history: []order.HistoryEntry{{Stage: stage.Payment, EnteredAt: testNow}},
			want:    63,
		},
		{
			name:    "out for delivery",
			current: stage.Delivery,
			history: []order.HistoryEntry{{Stage: stage.Delivery, EnteredAt: testNow}},
			want:    100,
		},
		{
			name:    "completed",
			current: stage.Completed,
			history: []order.HistoryEntry{{Stage: stage.Completed, EnteredAt: testNow}},
			want:    100,
		},
		{
			name:    "failed keeps the progress it had reached",
			current: stage.Failed,
			history: []order.HistoryEntry{
				{Stage: stage.Created, EnteredAt: testNow.Add(-time.Hour)},
				{Stage: stage.Weighing, EnteredAt: testNow.Add(-30 * time.Minute)},
				{Stage: stage.Failed, EnteredAt: testNow},
			},
			want: 25,
		},
		{
			name:    "failed with no prior history",
			current: stage.Failed,
			history: []order.HistoryEntry{{Stage: stage.Failed, EnteredAt: testNow}},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := orderAt(t, tt.current, tt.history, nil)
			assert.Equal(t, tt.want, projection.ProgressPercent(o))
		})
	}
}

func TestStageBreakdown(t *testing.T) {
	history := []order.HistoryEntry{
		{Stage: stage.Created, EnteredAt: testNow.Add(-60 * time.Minute)},
		{Stage: stage.Weighing, EnteredAt: testNow.Add(-50 * time.Minute)},
		{Stage: stage.CreateInvoice, EnteredAt: testNow.Add(-25 * time.Minute)},
	}
	o := orderAt(t, stage.CreateInvoice, history, nil)

	breakdown := projection.StageBreakdown(o, testNow)

	require.Len(t, breakdown, 3)

	created := breakdown[0]
	assert.Equal(t, stage.Created, created.Stage)
	assert.Equal(t, 10, created.ElapsedMinutes)
	assert.False(t, created.Overdue)
	assert.True(t, created.Warning, "10 of 15 budget minutes puts created inside its warning window")

	weighing := breakdown[1]
	assert.Equal(t, 25, weighing.ElapsedMinutes)
	assert.True(t, weighing.Overdue, "25 minutes against a 20 minute budget")
	assert.False(t, weighing.Warning)

	invoice := breakdown[2]
	assert.Equal(t, 25, invoice.ElapsedMinutes, "current stage is measured against now")
	assert.True(t, invoice.Overdue)
}

func TestFleetOverdueSummary(t *testing.T) {
	deadlineAgo := func(minutes int) *time.Time {
		d := testNow.Add(-time.Duration(minutes) * time.Minute)
		return &d
	}
	weighingHistory := []order.HistoryEntry{{Stage: stage.Weighing, EnteredAt: testNow.Add(-time.Hour)}}
	paymentHistory := []order.HistoryEntry{{Stage: stage.Payment, EnteredAt: testNow.Add(-time.Hour)}}

	tenLate := orderAt(t, stage.Weighing, weighingHistory, deadlineAgo(10))
	thirtyLate := orderAt(t, stage.Weighing, weighingHistory, deadlineAgo(30))
	fiveLate := orderAt(t, stage.Payment, paymentHistory, deadlineAgo(5))
	onTimeDeadline := testNow.Add(15 * time.Minute)
	onTime := orderAt(t, stage.InKitchen, nil, &onTimeDeadline)
	done := orderAt(t, stage.Completed, nil, nil)

	summary := projection.FleetOverdueSummary(
		[]*order.Order{tenLate, thirtyLate, fiveLate, onTime, done}, testNow)

	assert.Equal(t, map[stage.ID]int{stage.Weighing: 2, stage.Payment: 1}, summary.ByStage)
	assert.Equal(t, 45, summary.TotalMinutesOverdue)
	require.NotNil(t, summary.MostOverdue)
	assert.Equal(t, thirtyLate.ID(), summary.MostOverdue.ID())
	assert.Equal(t, 30, summary.MostOverdueMinutes)
}

func TestFleetOverdueSummary_Boundaries(t *testing.T) {
	t.Run("empty fleet", func(t *testing.T) {
		summary := projection.FleetOverdueSummary(nil, testNow)
		assert.Empty(t, summary.ByStage)
		assert.Zero(t, summary.TotalMinutesOverdue)
		assert.Nil(t, summary.MostOverdue)
	})

	t.Run("deadline exactly now is not overdue", func(t *testing.T) {
		deadline := testNow
		o := orderAt(t, stage.Weighing, nil, &deadline)

		summary := projection.FleetOverdueSummary([]*order.Order{o}, testNow)

		assert.Empty(t, summary.ByStage)
		assert.Nil(t, summary.MostOverdue)
	})
}
