// Package mocks provides hand-written mock implementations of the store
// interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	FindByAssigneeFn  func(ctx context.Context, assigneeID uuid.UUID, pred store.TaskPredicate) ([]domain.Task, error)
	CountByStatusFn   func(ctx context.Context, window domain.TimeWindow) (map[domain.TaskStatus]int, error)
	CountByPriorityFn func(ctx context.Context, window domain.TimeWindow) (map[domain.TaskPriority]int, error)
	FindCompletedFn   func(ctx context.Context) ([]domain.Task, error)
	ListFn            func(ctx context.Context, filters store.ListFilters, page, pageSize int) ([]domain.Task, int, error)
	UpdateFn          func(ctx context.Context, id uuid.UUID, patch store.TaskPatch) (*domain.Task, error)

	// Tasks is the data behind the default implementations.
	Tasks []domain.Task

	// ListCalls counts List invocations for cache-behavior assertions.
	ListCalls int
}

// NewMockTaskStore creates a new mock store with the given tasks.
func NewMockTaskStore(tasks ...domain.Task) *MockTaskStore {
	return &MockTaskStore{Tasks: tasks}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// FindByAssignee implements the TaskStore interface
func (m *MockTaskStore) FindByAssignee(
	ctx context.Context,
	assigneeID uuid.UUID,
	pred store.TaskPredicate,
) ([]domain.Task, error) {
	if m.FindByAssigneeFn != nil {
		return m.FindByAssigneeFn(ctx, assigneeID, pred)
	}

	var out []domain.Task
	for _, task := range m.Tasks {
		if task.AssigneeID == assigneeID && matchesPredicate(task, pred) {
			out = append(out, task)
		}
	}
	return out, nil
}

// CountByStatus implements the TaskStore interface
func (m *MockTaskStore) CountByStatus(
	ctx context.Context,
	window domain.TimeWindow,
) (map[domain.TaskStatus]int, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, window)
	}

	counts := make(map[domain.TaskStatus]int)
	for _, task := range m.Tasks {
		if window.Contains(task.CreatedAt) {
			counts[task.Status]++
		}
	}
	return counts, nil
}

// CountByPriority implements the TaskStore interface
func (m *MockTaskStore) CountByPriority(
	ctx context.Context,
	window domain.TimeWindow,
) (map[domain.TaskPriority]int, error) {
	if m.CountByPriorityFn != nil {
		return m.CountByPriorityFn(ctx, window)
	}

	counts := make(map[domain.TaskPriority]int)
	for _, task := range m.Tasks {
		if window.Contains(task.CreatedAt) && task.Status != domain.TaskStatusCancelled {
			counts[task.Priority]++
		}
	}
	return counts, nil
}

// FindCompleted implements the TaskStore interface
func (m *MockTaskStore) FindCompleted(ctx context.Context) ([]domain.Task, error) {
	if m.FindCompletedFn != nil {
		return m.FindCompletedFn(ctx)
	}

	var out []domain.Task
	for _, task := range m.Tasks {
		if task.IsCompleted() {
			out = append(out, task)
		}
	}
	return out, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	filters store.ListFilters,
	page, pageSize int,
) ([]domain.Task, int, error) {
	m.ListCalls++

	if m.ListFn != nil {
		return m.ListFn(ctx, filters, page, pageSize)
	}

	var matched []domain.Task
	for _, task := range m.Tasks {
		if filters.Status != "" && string(task.Status) != filters.Status {
			continue
		}
		if filters.Priority != "" && string(task.Priority) != filters.Priority {
			continue
		}
		if filters.AssigneeID != "" && task.AssigneeID.String() != filters.AssigneeID {
			continue
		}
		matched = append(matched, task)
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, len(matched), nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}

	for i := range m.Tasks {
		if m.Tasks[i].ID != id {
			continue
		}
		task := &m.Tasks[i]
		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Status != nil {
			task.Status = *patch.Status
			if *patch.Status == domain.TaskStatusCompleted && task.CompletedAt == nil {
				now := time.Now().UTC()
				task.CompletedAt = &now
			}
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.Complexity != nil {
			task.Complexity = *patch.Complexity
		}
		updated := *task
		return &updated, nil
	}

	return nil, store.ErrTaskNotFound
}

// matchesPredicate applies a typed predicate in memory, mirroring the SQL
// translation in the postgres store.
func matchesPredicate(task domain.Task, pred store.TaskPredicate) bool {
	if pred.CreatedWithin != nil && !pred.CreatedWithin.Contains(task.CreatedAt) {
		return false
	}
	if pred.CreatedAtOrBefore != nil && task.CreatedAt.After(*pred.CreatedAtOrBefore) {
		return false
	}
	if pred.OpenOrCompletedSince != nil &&
		task.CompletedAt != nil && task.CompletedAt.Before(*pred.OpenOrCompletedSince) {
		return false
	}
	if pred.Status != nil && task.Status != *pred.Status {
		return false
	}
	if pred.ExcludeStatus != nil && task.Status == *pred.ExcludeStatus {
		return false
	}
	if pred.CompletedOnly && task.CompletedAt == nil {
		return false
	}
	return true
}
