package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

func mustStage(t *testing.T, id stage.ID) stage.Definition {
	t.Helper()
	def, err := stage.ByID(id)
	require.NoError(t, err)
	return def
}

func TestDeadline(t *testing.T) {
	enteredAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("adds the stage budget to the entry time", func(t *testing.T) {
		d := Deadline(mustStage(t, stage.Weighing), enteredAt)

		require.NotNil(t, d)
		assert.Equal(t, enteredAt.Add(20*time.Minute), *d)
	})

	t.Run("terminal stages have no deadline", func(t *testing.T) {
		assert.Nil(t, Deadline(mustStage(t, stage.Completed), enteredAt))
		assert.Nil(t, Deadline(mustStage(t, stage.Failed), enteredAt))
	})

	t.Run("lookup variant tolerates unknown stages", func(t *testing.T) {
		assert.Nil(t, DeadlineFor("frozen", enteredAt))
	})
}

func TestElapsedMinutes(t *testing.T) {
	enteredAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, ElapsedMinutes(enteredAt, enteredAt))
	assert.Equal(t, 20, ElapsedMinutes(enteredAt, enteredAt.Add(20*time.Minute)))
	assert.Equal(t, 20, ElapsedMinutes(enteredAt, enteredAt.Add(20*time.Minute+59*time.Second)))
	assert.Equal(t, 0, ElapsedMinutes(enteredAt, enteredAt.Add(-time.Minute)), "clock skew clamps to zero")
}

func TestOverdue(t *testing.T) {
	weighing := mustStage(t, stage.Weighing) // 20 minute budget

	t.Run("exactly on budget is not overdue", func(t *testing.T) {
		assert.False(t, Overdue(20, weighing))
	})

	t.Run("one minute past budget is overdue", func(t *testing.T) {
		assert.True(t, Overdue(21, weighing))
	})

	t.Run("terminal stages are never overdue", func(t *testing.T) {
		assert.False(t, Overdue(1000, mustStage(t, stage.Completed)))
	})
}

func TestWarning(t *testing.T) {
	weighing := mustStage(t, stage.Weighing) // budget 20, threshold 15

	t.Run("fires when remaining time drops to the threshold", func(t *testing.T) {
		assert.False(t, Warning(4, weighing))
		assert.True(t, Warning(5, weighing))
		assert.True(t, Warning(20, weighing))
	})

	t.Run("does not fire once overdue", func(t *testing.T) {
		assert.False(t, Warning(21, weighing))
	})

	t.Run("terminal stages never warn", func(t *testing.T) {
		assert.False(t, Warning(0, mustStage(t, stage.Failed)))
	})
}

func TestMinutesOverdue(t *testing.T) {
	deadline := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, MinutesOverdue(deadline, deadline))
	assert.Equal(t, 0, MinutesOverdue(deadline, deadline.Add(-10*time.Minute)))
	assert.Equal(t, 30, MinutesOverdue(deadline, deadline.Add(30*time.Minute)))
}

func TestRemaining(t *testing.T) {
	deadline := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 15*time.Minute, Remaining(deadline, deadline.Add(-15*time.Minute)))
	assert.Equal(t, -5*time.Minute, Remaining(deadline, deadline.Add(5*time.Minute)))
}
