package analytics

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// CompletedTask is one completed task annotated with its completion time.
type CompletedTask struct {
	ID          uuid.UUID           `json:"id"`
	AssigneeID  uuid.UUID           `json:"assigneeId"`
	Priority    domain.TaskPriority `json:"priority"`
	Complexity  int                 `json:"complexity"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt *time.Time          `json:"completedAt"`

	// CompletionTime is the rounded number of hours between creation and
	// completion, or nil when the task has no completion timestamp.
	CompletionTime *int `json:"completionTime"`
}

// Statistics computes status and priority breakdowns and per-task completion
// deltas over a time window, reading from the task store.
type Statistics struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewStatistics creates a new Statistics service backed by the given task store.
// If logger is nil, the default logger is used.
func NewStatistics(tasks store.TaskStore, logger *slog.Logger) *Statistics {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task store cannot be nil for Statistics")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Statistics{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "statistics")),
	}
}

// StatusBreakdown returns the number of tasks per status with createdAt
// inside the window.
func (s *Statistics) StatusBreakdown(
	ctx context.Context,
	window domain.TimeWindow,
) (map[domain.TaskStatus]int, error) {
	counts, err := s.tasks.CountByStatus(ctx, window)
	if err != nil {
		return nil, NewAnalyticsError("status breakdown", "counting tasks by status", err)
	}
	return counts, nil
}

// PriorityBreakdown returns the number of non-cancelled tasks per priority
// with createdAt inside the window.
func (s *Statistics) PriorityBreakdown(
	ctx context.Context,
	window domain.TimeWindow,
) (map[domain.TaskPriority]int, error) {
	counts, err := s.tasks.CountByPriority(ctx, window)
	if err != nil {
		return nil, NewAnalyticsError("priority breakdown", "counting tasks by priority", err)
	}
	return counts, nil
}

// CompletedTaskDetail returns every historically completed task with its
// completion time. Unlike the breakdowns, this read is deliberately not
// window-filtered on createdAt: downstream efficiency and projection metrics
// consume the full completion history.
func (s *Statistics) CompletedTaskDetail(ctx context.Context) ([]CompletedTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.FindCompleted(ctx)
	if err != nil {
		log.Error("completed task detail read failed", slog.String("error", err.Error()))
		return nil, NewAnalyticsError("completed detail", "reading completed tasks", err)
	}

	detail := make([]CompletedTask, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		entry := CompletedTask{
			ID:          task.ID,
			AssigneeID:  task.AssigneeID,
			Priority:    task.Priority,
			Complexity:  task.Complexity,
			CreatedAt:   task.CreatedAt,
			CompletedAt: task.CompletedAt,
		}
		if task.CompletedAt != nil {
			hours := int(math.Round(task.CompletedAt.Sub(task.CreatedAt).Hours()))
			entry.CompletionTime = &hours
		}
		detail = append(detail, entry)
	}

	return detail, nil
}
