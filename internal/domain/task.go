package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskAssigneeEmpty is returned when a task's assignee ID is empty or nil.
	ErrTaskAssigneeEmpty = errors.New("task assignee ID cannot be empty")

	// ErrTaskStatusInvalid is returned when a task's status is not a recognized value.
	ErrTaskStatusInvalid = errors.New("task status is invalid")

	// ErrTaskPriorityInvalid is returned when a task's priority is not a recognized value.
	ErrTaskPriorityInvalid = errors.New("task priority is invalid")

	// ErrTaskComplexityOutOfRange is returned when a task's complexity is outside the 1-10 scale.
	ErrTaskComplexityOutOfRange = errors.New("task complexity must be between 1 and 10")

	// ErrTaskCompletionInconsistent is returned when a task's completion timestamp
	// does not agree with its status (set without completed status, or vice versa).
	ErrTaskCompletionInconsistent = errors.New("task completion timestamp inconsistent with status")
)

// TaskStatus represents the lifecycle state of a task.
// Transitions are monotonic except for cancellation.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid reports whether the status is one of the recognized values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the urgency classification of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid reports whether the priority is one of the recognized values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Complexity bounds for the 1-10 weighting scale.
const (
	MinComplexity = 1
	MaxComplexity = 10
)

// Task represents a unit of work assigned to a user.
// CompletedAt is set exactly once on transition to completed and never cleared.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	AssigneeID  uuid.UUID    `json:"assigneeId"`
	Title       string       `json:"title"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Complexity  int          `json:"complexity"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// NewTask creates a new pending Task assigned to the given user.
// It generates a new UUID for the task ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewTask(assigneeID uuid.UUID, title string, priority TaskPriority, complexity int) (*Task, error) {
	task := &Task{
		ID:         uuid.New(),
		AssigneeID: assigneeID,
		Title:      title,
		Status:     TaskStatusPending,
		Priority:   priority,
		Complexity: complexity,
		CreatedAt:  time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.AssigneeID == uuid.Nil {
		return ErrTaskAssigneeEmpty
	}

	if !t.Status.IsValid() {
		return ErrTaskStatusInvalid
	}

	if !t.Priority.IsValid() {
		return ErrTaskPriorityInvalid
	}

	if t.Complexity < MinComplexity || t.Complexity > MaxComplexity {
		return ErrTaskComplexityOutOfRange
	}

	if (t.CompletedAt != nil) != (t.Status == TaskStatusCompleted) {
		return ErrTaskCompletionInconsistent
	}

	return nil
}

// IsCompleted reports whether the task has been completed.
// A task counts as completed only when the status says so and the
// completion timestamp is present.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted && t.CompletedAt != nil
}
