package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

func TestSafeRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, safeRatio(5, 0))
	assert.Equal(t, 2.5, safeRatio(5, 2))
	assert.Equal(t, 0.0, safeRatio(0, 0))
	assert.False(t, math.IsNaN(safeRatio(0, 0)))
}

func TestCompletionRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record AggregateRecord
		want   float64
	}{
		{
			name:   "one of three completed",
			record: AggregateRecord{AssignedTasks: 3, CompletedTasks: 1},
			want:   1.0 / 3.0,
		},
		{
			name:   "no assigned tasks yields zero, never NaN",
			record: AggregateRecord{AssignedTasks: 0, CompletedTasks: 0},
			want:   0,
		},
		{
			name:   "everything completed",
			record: AggregateRecord{AssignedTasks: 4, CompletedTasks: 4},
			want:   1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rate := CompletionRate(tc.record)
			assert.InDelta(t, tc.want, rate, 1e-9)
			assert.False(t, math.IsNaN(rate))
		})
	}
}

func TestPriorityWeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, PriorityWeight(domain.TaskPriorityLow))
	assert.Equal(t, 1.5, PriorityWeight(domain.TaskPriorityMedium))
	assert.Equal(t, 2.0, PriorityWeight(domain.TaskPriorityHigh))
	assert.Equal(t, 3.0, PriorityWeight(domain.TaskPriorityUrgent))
	assert.Equal(t, 1.0, PriorityWeight(domain.TaskPriority("unknown")))
}

func TestEfficiency(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()

	completed := []CompletedTask{
		{AssigneeID: userID, Priority: domain.TaskPriorityHigh, Complexity: 4},
		{AssigneeID: userID, Priority: domain.TaskPriorityLow, Complexity: 2},
		{AssigneeID: otherID, Priority: domain.TaskPriorityUrgent, Complexity: 10},
	}

	t.Run("weights and divides by work hours", func(t *testing.T) {
		t.Parallel()
		// (4x2 + 2x1) / 20 = 0.5; the other user's task is ignored.
		record := AggregateRecord{TotalWorkHours: 20}
		assert.InDelta(t, 0.5, Efficiency(userID, completed, record), 1e-9)
	})

	t.Run("work hours floor at one", func(t *testing.T) {
		t.Parallel()
		record := AggregateRecord{TotalWorkHours: 0.25}
		assert.InDelta(t, 10.0, Efficiency(userID, completed, record), 1e-9)
	})

	t.Run("no completed tasks yields zero", func(t *testing.T) {
		t.Parallel()
		record := AggregateRecord{TotalWorkHours: 12}
		assert.Zero(t, Efficiency(uuid.New(), completed, record))
	})
}

func TestProjection(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("zero work days is guarded", func(t *testing.T) {
		t.Parallel()
		record := AggregateRecord{UserID: userID, CompletedTasks: 5, WorkDays: 0}
		assert.Zero(t, Projection(userID, 10, record, nil))
	})

	t.Run("zero completed tasks is guarded", func(t *testing.T) {
		t.Parallel()
		record := AggregateRecord{UserID: userID, CompletedTasks: 0, WorkDays: 4}
		assert.Zero(t, Projection(userID, 10, record, nil))
	})

	t.Run("complexity-adjusted pace", func(t *testing.T) {
		t.Parallel()

		completed := []CompletedTask{
			{AssigneeID: userID, Complexity: 4},
			{AssigneeID: userID, Complexity: 6},
		}
		record := AggregateRecord{UserID: userID, CompletedTasks: 2, WorkDays: 2}

		// Average complexity 5, pace 1 task/day, adjusted pace 0.2 → 50 days.
		got := Projection(userID, 10, record, completed)
		assert.InDelta(t, 50.0, got, 1e-9)
	})

	t.Run("no completion history falls back to complexity one", func(t *testing.T) {
		t.Parallel()

		// Rollup says two completions but the history carries none for this
		// user; the average-complexity fallback keeps the estimate defined.
		record := AggregateRecord{UserID: userID, CompletedTasks: 2, WorkDays: 4}
		got := Projection(userID, 10, record, nil)
		assert.InDelta(t, 20.0, got, 1e-9)
	})
}

func TestComputeTeamMetrics(t *testing.T) {
	t.Parallel()

	t.Run("sums and averages across users", func(t *testing.T) {
		t.Parallel()

		records := []AggregateRecord{
			{CompletedTasks: 4, TotalWorkHours: 30, WorkDays: 2},
			{CompletedTasks: 1, TotalWorkHours: 10, WorkDays: 1},
		}

		metrics := ComputeTeamMetrics(records)
		assert.Equal(t, 5, metrics.TotalCompletedTasks)
		assert.InDelta(t, 40.0, metrics.TotalWorkHours, 1e-9)
		// (4/2 + 1/1) / 2 = 1.5
		assert.InDelta(t, 1.5, metrics.AverageTasksPerDay, 1e-9)
	})

	t.Run("zero work days count as one", func(t *testing.T) {
		t.Parallel()

		records := []AggregateRecord{{CompletedTasks: 3, WorkDays: 0}}
		metrics := ComputeTeamMetrics(records)
		assert.InDelta(t, 3.0, metrics.AverageTasksPerDay, 1e-9)
	})

	t.Run("empty team", func(t *testing.T) {
		t.Parallel()

		metrics := ComputeTeamMetrics(nil)
		assert.Zero(t, metrics.TotalCompletedTasks)
		assert.Zero(t, metrics.AverageTasksPerDay)
		assert.False(t, math.IsNaN(metrics.AverageTasksPerDay))
	})
}

func TestAverageCompletionTime(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	afterOneDay := created.Add(24 * time.Hour)
	afterThreeDays := created.Add(72 * time.Hour)

	t.Run("mean hours across completions", func(t *testing.T) {
		t.Parallel()

		completed := []CompletedTask{
			{CreatedAt: created, CompletedAt: &afterOneDay},
			{CreatedAt: created, CompletedAt: &afterThreeDays},
		}
		assert.InDelta(t, 48.0, AverageCompletionTime(completed), 1e-9)
	})

	t.Run("entries without completion are skipped", func(t *testing.T) {
		t.Parallel()

		completed := []CompletedTask{
			{CreatedAt: created, CompletedAt: &afterOneDay},
			{CreatedAt: created},
		}
		assert.InDelta(t, 24.0, AverageCompletionTime(completed), 1e-9)
	})

	t.Run("empty input yields zero", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, AverageCompletionTime(nil))
	})
}
