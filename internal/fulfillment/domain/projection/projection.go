// Package projection computes read-only views over committed order
// state: overall progress and fleet-wide overdue aggregation. Nothing
// here mutates an order; everything is recomputed on demand.
package projection

import (
	"math"
	"time"

	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/sla"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// ProgressPercent reports how far along the pipeline an order is, as a
// whole percentage. Completed orders report 100; failed orders report
// the percentage they had reached when they failed.
func ProgressPercent(o *order.Order) int {
	current := o.CurrentStage()

	if current == stage.Completed {
		return 100
	}
	if current == stage.Failed {
		current = lastActiveStage(o)
		if current == "" {
			return 0
		}
	}

	idx := stage.Index(current)
	if idx < 0 {
		return 0
	}
	total := len(stage.NonTerminal())
	return int(math.Round(float64(idx+1) / float64(total) * 100))
}

// lastActiveStage returns the stage a failed order was in before the
// failed history entry.
func lastActiveStage(o *order.Order) stage.ID {
	history := o.History()
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Stage.IsTerminal() {
			return history[i].Stage
		}
	}
	return ""
}

// StageTime is the retrospective timing of one history entry.
type StageTime struct {
	Stage          stage.ID
	EnteredAt      time.Time
	ElapsedMinutes int
	Overdue        bool
	Warning        bool
}

// StageBreakdown reports the time spent in every stage the order has
// entered. The last (current) entry is measured against now; completed
// entries against the next entry's timestamp.
func StageBreakdown(o *order.Order, now time.Time) []StageTime {
	history := o.History()
	out := make([]StageTime, 0, len(history))

	for i, entry := range history {
		until := now
		if i < len(history)-1 {
			until = history[i+1].EnteredAt
		}
		elapsed := sla.ElapsedMinutes(entry.EnteredAt, until)

		st := StageTime{
			Stage:          entry.Stage,
			EnteredAt:      entry.EnteredAt,
			ElapsedMinutes: elapsed,
		}
		if def, err := stage.ByID(entry.Stage); err == nil {
			st.Overdue = sla.Overdue(elapsed, def)
			st.Warning = sla.Warning(elapsed, def)
		}
		out = append(out, st)
	}

	return out
}

// OverdueSummary aggregates every order whose current-stage deadline has
// passed.
type OverdueSummary struct {
	ByStage             map[stage.ID]int
	TotalMinutesOverdue int
	MostOverdue         *order.Order
	MostOverdueMinutes  int
}

// FleetOverdueSummary scans a set of orders and reports the overdue
// picture: counts per stage, total minutes late, and the single worst
// offender.
func FleetOverdueSummary(orders []*order.Order, now time.Time) OverdueSummary {
	summary := OverdueSummary{ByStage: make(map[stage.ID]int)}

	for _, o := range orders {
		deadline := o.Deadline()
		if deadline == nil || !now.After(*deadline) {
			continue
		}

		minutes := sla.MinutesOverdue(*deadline, now)
		summary.ByStage[o.CurrentStage()]++
		summary.TotalMinutesOverdue += minutes

		if summary.MostOverdue == nil || minutes > summary.MostOverdueMinutes {
			summary.MostOverdue = o
			summary.MostOverdueMinutes = minutes
		}
	}

	return summary
}
