package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// taskColumns is the canonical select list for task rows.
const taskColumns = "id, assignee_id, title, status, priority, complexity, created_at, completed_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	return &PostgresTaskStore{db: db}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// FindByAssignee implements store.TaskStore.FindByAssignee
func (s *PostgresTaskStore) FindByAssignee(
	ctx context.Context,
	assigneeID uuid.UUID,
	pred store.TaskPredicate,
) ([]domain.Task, error) {
	clauses := []string{"assignee_id = $1"}
	args := []any{assigneeID}

	predClauses, predArgs := predicateClauses(pred, 2)
	clauses = append(clauses, predClauses...)
	args = append(args, predArgs...)

	query := "SELECT " + taskColumns + " FROM tasks WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by assignee: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(
	ctx context.Context,
	window domain.TimeWindow,
) (map[domain.TaskStatus]int, error) {
	query := `
		SELECT status, COUNT(id)
		FROM tasks
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[domain.TaskStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}

	return counts, nil
}

// CountByPriority implements store.TaskStore.CountByPriority
func (s *PostgresTaskStore) CountByPriority(
	ctx context.Context,
	window domain.TimeWindow,
) (map[domain.TaskPriority]int, error) {
	query := `
		SELECT priority, COUNT(id)
		FROM tasks
		WHERE created_at >= $1 AND created_at < $2 AND status <> $3
		GROUP BY priority
	`

	rows, err := s.db.QueryContext(ctx, query,
		window.Start, window.End, string(domain.TaskStatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.TaskPriority]int)
	for rows.Next() {
		var (
			priority string
			count    int
		)
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		counts[domain.TaskPriority(priority)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read priority counts: %w", err)
	}

	return counts, nil
}

// FindCompleted implements store.TaskStore.FindCompleted
func (s *PostgresTaskStore) FindCompleted(ctx context.Context) ([]domain.Task, error) {
	query := "SELECT " + taskColumns + ` FROM tasks
		WHERE status = $1 AND completed_at IS NOT NULL
		ORDER BY completed_at`

	rows, err := s.db.QueryContext(ctx, query, string(domain.TaskStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to query completed tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filters store.ListFilters,
	page, pageSize int,
) ([]domain.Task, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	clauses, args := listClauses(filters, 1)
	where := whereSQL(clauses)

	var total int
	countQuery := "SELECT COUNT(id) FROM tasks" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM tasks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		taskColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update
// A transition to completed sets completed_at exactly once; the timestamp is
// never cleared or overwritten afterwards.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	var (
		sets []string
		args []any
	)
	next := func() int { return len(args) + 1 }

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", next()))
		args = append(args, *patch.Title)
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", next()))
		args = append(args, string(*patch.Status))
		if *patch.Status == domain.TaskStatusCompleted {
			sets = append(sets, "completed_at = COALESCE(completed_at, NOW())")
		}
	}
	if patch.Priority != nil {
		sets = append(sets, fmt.Sprintf("priority = $%d", next()))
		args = append(args, string(*patch.Priority))
	}
	if patch.Complexity != nil {
		sets = append(sets, fmt.Sprintf("complexity = $%d", next()))
		args = append(args, *patch.Complexity)
	}

	if len(sets) == 0 {
		// Empty patch: return the current row.
		return s.getByID(ctx, id)
	}

	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), next(), taskColumns)
	args = append(args, id)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			"task_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// getByID fetches a single task row.
func (s *PostgresTaskStore) getByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		status      string
		priority    string
		completedAt sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.AssigneeID,
		&task.Title,
		&status,
		&priority,
		&task.Complexity,
		&task.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}

	return &task, nil
}

// scanTasks drains the result set into task values.
func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}
	return tasks, nil
}

// touchTimeout bounds maintenance statements issued at startup.
const touchTimeout = 5 * time.Second

// Ping verifies the connection is usable. Called once during wiring so a
// misconfigured database URL fails fast instead of on the first request.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, touchTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
