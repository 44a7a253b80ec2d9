package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// TaskPredicate describes a typed filter applied to task reads.
// Nil / zero fields mean the condition is not applied. Predicates are
// translated to parameterized SQL by the store implementation; callers
// never assemble query text themselves.
type TaskPredicate struct {
	// CreatedWithin restricts tasks to createdAt in [Start, End).
	CreatedWithin *domain.TimeWindow

	// CreatedAtOrBefore restricts tasks to createdAt <= the given instant.
	CreatedAtOrBefore *time.Time

	// OpenOrCompletedSince keeps tasks whose completedAt is unset or at/after
	// the given instant. Used to select work that overlaps a window.
	OpenOrCompletedSince *time.Time

	// Status keeps only tasks with the given status.
	Status *domain.TaskStatus

	// ExcludeStatus drops tasks with the given status.
	ExcludeStatus *domain.TaskStatus

	// CompletedOnly keeps only tasks with a completedAt timestamp.
	CompletedOnly bool
}

// ListFilters are the optional filters accepted by paginated task listings.
// Zero values mean the filter is not applied.
type ListFilters struct {
	Status     string
	Priority   string
	AssigneeID string
}

// Map returns the filter set as a flat key/value map with zero values
// omitted. The map form is what the listing cache derives its keys from.
func (f ListFilters) Map() map[string]string {
	m := make(map[string]string, 3)
	if f.Status != "" {
		m["status"] = f.Status
	}
	if f.Priority != "" {
		m["priority"] = f.Priority
	}
	if f.AssigneeID != "" {
		m["assigneeId"] = f.AssigneeID
	}
	return m
}

// TaskPatch describes a partial update to a task. Nil fields are left
// unchanged. Transitioning status to completed sets completedAt exactly
// once; it is never cleared afterwards.
type TaskPatch struct {
	Title      *string
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	Complexity *int
}

// TaskStore defines the interface for task persistence reads and the single
// authoritative write used by the mutation path.
type TaskStore interface {
	// FindByAssignee retrieves the tasks assigned to the given user that
	// match the predicate. Returns an empty slice when nothing matches.
	FindByAssignee(ctx context.Context, assigneeID uuid.UUID, pred TaskPredicate) ([]domain.Task, error)

	// CountByStatus returns the number of tasks per status with createdAt
	// inside the window.
	CountByStatus(ctx context.Context, window domain.TimeWindow) (map[domain.TaskStatus]int, error)

	// CountByPriority returns the number of non-cancelled tasks per priority
	// with createdAt inside the window.
	CountByPriority(ctx context.Context, window domain.TimeWindow) (map[domain.TaskPriority]int, error)

	// FindCompleted retrieves all completed tasks with a completion
	// timestamp, regardless of creation date.
	FindCompleted(ctx context.Context) ([]domain.Task, error)

	// List retrieves one page of tasks matching the filters, newest first,
	// along with the total number of matching tasks.
	List(ctx context.Context, filters ListFilters, page, pageSize int) ([]domain.Task, int, error)

	// Update applies the patch to the task with the given ID and returns the
	// updated task. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, patch TaskPatch) (*domain.Task, error)
}
