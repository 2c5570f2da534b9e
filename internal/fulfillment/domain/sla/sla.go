// Package sla computes stage deadlines and overdue state. Every function
// takes "now" (or both endpoints) explicitly so callers control the clock.
package sla

import (
	"time"

	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// Deadline returns when a stage entered at enteredAt breaches its budget.
// Terminal stages carry no deadline.
func Deadline(def stage.Definition, enteredAt time.Time) *time.Time {
	if def.ID.IsTerminal() || def.StandardDuration == 0 {
		return nil
	}
	d := enteredAt.Add(def.StandardDuration)
	return &d
}

// DeadlineFor is Deadline with a catalog lookup. Unknown stages yield nil.
func DeadlineFor(id stage.ID, enteredAt time.Time) *time.Time {
	def, err := stage.ByID(id)
	if err != nil {
		return nil
	}
	return Deadline(def, enteredAt)
}

// ElapsedMinutes returns the whole minutes between a stage entry and
// either the next stage entry or, for the current stage, now.
func ElapsedMinutes(enteredAt, until time.Time) int {
	if until.Before(enteredAt) {
		return 0
	}
	return int(until.Sub(enteredAt) / time.Minute)
}

// Overdue reports whether the elapsed time strictly exceeds the stage
// budget. Exactly on budget is not overdue.
func Overdue(elapsedMinutes int, def stage.Definition) bool {
	if def.ID.IsTerminal() || def.StandardDuration == 0 {
		return false
	}
	return time.Duration(elapsedMinutes)*time.Minute > def.StandardDuration
}

// Warning reports whether the remaining budget has dropped to or below
// the stage's warning threshold without being overdue yet.
func Warning(elapsedMinutes int, def stage.Definition) bool {
	if def.ID.IsTerminal() || def.StandardDuration == 0 {
		return false
	}
	if Overdue(elapsedMinutes, def) {
		return false
	}
	return time.Duration(elapsedMinutes)*time.Minute >= def.StandardDuration-def.WarningThreshold
}

// Remaining returns the time left until a deadline, negative once passed.
func Remaining(deadline, now time.Time) time.Duration {
	return deadline.Sub(now)
}

// MinutesOverdue returns how many whole minutes a deadline has been
// breached by, clamped at zero.
func MinutesOverdue(deadline, now time.Time) int {
	if !now.After(deadline) {
		return 0
	}
	return int(now.Sub(deadline) / time.Minute)
}
