// Package analytics computes per-user rollups, status/priority breakdowns,
// and the derived metrics (completion rate, efficiency, projections) served
// by the analytics endpoints. All aggregation is scoped to a TimeWindow and
// weighted by task complexity and priority.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// complexityMidpoint normalizes the 1-10 complexity scale to a work-hour
// multiplier centered at 1.0.
const complexityMidpoint = 5.0

// AggregateRecord is the per-user rollup for one window. It is a computed
// value, recomputed on every analytics request and never persisted.
type AggregateRecord struct {
	UserID   uuid.UUID
	UserName string

	// AssignedTasks is the number of tasks created for the user inside the window.
	AssignedTasks int

	// CompletedTasks is the subset of AssignedTasks that reached completion.
	CompletedTasks int

	// TotalWorkHours is the complexity-weighted sum of window-overlapping
	// work time across the user's non-cancelled tasks. Always >= 0 and finite.
	TotalWorkHours float64

	// WorkDays is the number of distinct non-weekend dates on which tasks
	// were created for the user inside the window. A value of 0 is reported
	// as-is; ratio consumers substitute 1 to avoid dividing by zero.
	WorkDays int
}

// Aggregator computes per-user rollups over a time window, reading from the
// task store.
type Aggregator struct {
	tasks  store.TaskStore
	logger *slog.Logger
	now    func() time.Time // injectable for testing
}

// NewAggregator creates a new Aggregator backed by the given task store.
// If logger is nil, the default logger is used.
func NewAggregator(tasks store.TaskStore, logger *slog.Logger) *Aggregator {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task store cannot be nil for Aggregator")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "aggregator")),
		now:    time.Now,
	}
}

// ComputeRollups computes one AggregateRecord per user for the given window.
// Any read failure aborts the whole computation; no partial per-user results
// are ever returned.
func (a *Aggregator) ComputeRollups(
	ctx context.Context,
	window domain.TimeWindow,
	users []domain.User,
) ([]AggregateRecord, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	records := make([]AggregateRecord, 0, len(users))
	for _, user := range users {
		record, err := a.computeUserRollup(ctx, window, user)
		if err != nil {
			log.Error("rollup computation aborted",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
			return nil, NewAnalyticsError("rollup", "reading tasks for user", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// computeUserRollup builds the rollup for a single user from two reads: the
// tasks created inside the window (counts and work days) and the tasks whose
// lifetime overlaps the window (work hours).
func (a *Aggregator) computeUserRollup(
	ctx context.Context,
	window domain.TimeWindow,
	user domain.User,
) (AggregateRecord, error) {
	record := AggregateRecord{
		UserID:   user.ID,
		UserName: user.Name,
	}

	createdInWindow, err := a.tasks.FindByAssignee(ctx, user.ID, store.TaskPredicate{
		CreatedWithin: &window,
	})
	if err != nil {
		return AggregateRecord{}, err
	}

	record.AssignedTasks = len(createdInWindow)
	record.CompletedTasks = countCompleted(createdInWindow)
	record.WorkDays = countWorkDays(createdInWindow)

	// Work hours consider every non-cancelled task whose lifetime overlaps
	// the window, including tasks created before the window started.
	cancelled := domain.TaskStatusCancelled
	overlapping, err := a.tasks.FindByAssignee(ctx, user.ID, store.TaskPredicate{
		CreatedAtOrBefore:    &window.End,
		OpenOrCompletedSince: &window.Start,
		ExcludeStatus:        &cancelled,
	})
	if err != nil {
		return AggregateRecord{}, err
	}

	record.TotalWorkHours = a.sumWorkHours(window, overlapping)

	return record, nil
}

// countCompleted counts the tasks that reached completion. A task counts only
// when both the status and the completion timestamp agree; window membership
// of completedAt is not re-checked because createdAt membership suffices by
// construction of the read.
func countCompleted(tasks []domain.Task) int {
	count := 0
	for i := range tasks {
		if tasks[i].IsCompleted() {
			count++
		}
	}
	return count
}

// countWorkDays counts the distinct calendar dates among the tasks' creation
// timestamps, excluding Saturdays and Sundays.
func countWorkDays(tasks []domain.Task) int {
	seen := make(map[string]struct{})
	for i := range tasks {
		created := tasks[i].CreatedAt
		weekday := created.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			continue
		}
		seen[created.Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}

// sumWorkHours sums the complexity-weighted hours each task spent inside the
// window. The overlap of a task is [max(createdAt, start), min(completedAt or
// now, end)]; an empty overlap contributes 0.
func (a *Aggregator) sumWorkHours(window domain.TimeWindow, tasks []domain.Task) float64 {
	total := 0.0
	now := a.now()

	for i := range tasks {
		task := &tasks[i]

		from := task.CreatedAt
		if from.Before(window.Start) {
			from = window.Start
		}

		until := now
		if task.CompletedAt != nil {
			until = *task.CompletedAt
		}
		if until.After(window.End) {
			until = window.End
		}

		overlap := until.Sub(from)
		if overlap <= 0 {
			continue
		}

		total += overlap.Hours() * (float64(task.Complexity) / complexityMidpoint)
	}

	return total
}
