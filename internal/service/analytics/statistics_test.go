package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/mocks"
)

func TestStatusBreakdown(t *testing.T) {
	t.Parallel()

	window := januaryWindow(t)
	userID := uuid.New()

	taskStore := mocks.NewMockTaskStore(
		openTask(userID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 5),
		openTask(userID, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 5),
		completedTask(userID,
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), 5),
		// Created outside the window: excluded.
		openTask(userID, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), 5),
	)

	stats := NewStatistics(taskStore, nil)

	counts, err := stats.StatusBreakdown(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.TaskStatusInProgress])
	assert.Equal(t, 1, counts[domain.TaskStatusCompleted])
}

func TestPriorityBreakdown(t *testing.T) {
	t.Parallel()

	window := januaryWindow(t)
	userID := uuid.New()

	urgent := openTask(userID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 5)
	urgent.Priority = domain.TaskPriorityUrgent

	taskStore := mocks.NewMockTaskStore(
		urgent,
		openTask(userID, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 5),
		// Cancelled tasks are excluded from the priority view.
		cancelledTask(userID, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 5),
	)

	stats := NewStatistics(taskStore, nil)

	counts, err := stats.PriorityBreakdown(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.TaskPriorityUrgent])
	assert.Equal(t, 1, counts[domain.TaskPriorityMedium])
	assert.Equal(t, 0, counts[domain.TaskPriorityLow])
}

func TestCompletedTaskDetail(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("includes completions from any period", func(t *testing.T) {
		t.Parallel()

		// One recent and one very old completion: both are returned because
		// the completion history feeds metrics that span all time.
		taskStore := mocks.NewMockTaskStore(
			completedTask(userID,
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), 5),
			completedTask(userID,
				time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2022, 6, 2, 0, 0, 0, 0, time.UTC), 3),
			openTask(userID, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), 5),
		)

		stats := NewStatistics(taskStore, nil)

		detail, err := stats.CompletedTaskDetail(context.Background())
		require.NoError(t, err)
		require.Len(t, detail, 2)

		require.NotNil(t, detail[0].CompletionTime)
		assert.Equal(t, 36, *detail[0].CompletionTime)
		require.NotNil(t, detail[1].CompletionTime)
		assert.Equal(t, 24, *detail[1].CompletionTime)
	})

	t.Run("completion time rounds to nearest hour", func(t *testing.T) {
		t.Parallel()

		taskStore := mocks.NewMockTaskStore(
			completedTask(userID,
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 2, 1, 40, 0, 0, time.UTC), 5),
		)

		stats := NewStatistics(taskStore, nil)

		detail, err := stats.CompletedTaskDetail(context.Background())
		require.NoError(t, err)
		require.Len(t, detail, 1)
		require.NotNil(t, detail[0].CompletionTime)
		assert.Equal(t, 2, *detail[0].CompletionTime)
	})

	t.Run("read failure is wrapped", func(t *testing.T) {
		t.Parallel()

		readErr := errors.New("connection reset")
		taskStore := mocks.NewMockTaskStore()
		taskStore.FindCompletedFn = func(ctx context.Context) ([]domain.Task, error) {
			return nil, readErr
		}

		stats := NewStatistics(taskStore, nil)

		_, err := stats.CompletedTaskDetail(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, readErr)
	})
}
