package taskcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// stubLister serves a fixed task list page by page and counts fetches.
type stubLister struct {
	mu    sync.Mutex
	tasks []domain.Task
	err   error
	calls int

	// block, when set, is closed by the test to release an in-flight fetch.
	block chan struct{}
}

func (l *stubLister) List(
	ctx context.Context,
	filters map[string]string,
	page, pageSize int,
) ([]domain.Task, int, error) {
	l.mu.Lock()
	l.calls++
	block := l.block
	l.mu.Unlock()

	if block != nil {
		<-block
	}

	if l.err != nil {
		return nil, 0, l.err
	}

	start := (page - 1) * pageSize
	if start >= len(l.tasks) {
		return nil, len(l.tasks), nil
	}
	end := start + pageSize
	if end > len(l.tasks) {
		end = len(l.tasks)
	}
	return l.tasks[start:end], len(l.tasks), nil
}

func (l *stubLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func makeTasks(n int) []domain.Task {
	tasks := make([]domain.Task, n)
	for i := range tasks {
		tasks[i] = domain.Task{
			ID:         uuid.New(),
			AssigneeID: uuid.New(),
			Title:      "task",
			Status:     domain.TaskStatusPending,
			Priority:   domain.TaskPriorityMedium,
			Complexity: 5,
			CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		}
	}
	return tasks
}

func TestPagerLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("miss fetches and populates the cache", func(t *testing.T) {
		t.Parallel()

		lister := &stubLister{tasks: makeTasks(25)}
		cache := New(NewMemoryBacking(), nil)
		pager := NewPager(cache, lister, map[string]string{"status": "pending"}, 10, nil)

		page, err := pager.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, page.Tasks, 10)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 3, pager.TotalPages())
		assert.Equal(t, 1, lister.callCount())

		// Second load is served from the cache.
		_, err = pager.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, lister.callCount())
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		t.Parallel()

		fetchErr := errors.New("connection reset")
		lister := &stubLister{err: fetchErr}
		pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

		_, err := pager.Load(ctx)
		assert.ErrorIs(t, err, fetchErr)
	})
}

func TestPagerNavigation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("next and prev move within bounds", func(t *testing.T) {
		t.Parallel()

		lister := &stubLister{tasks: makeTasks(25)}
		pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

		_, err := pager.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, pager.TotalPages())

		page, err := pager.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, pager.Page())
		assert.Len(t, page.Tasks, 10)

		_, err = pager.PrevPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, pager.Page())
	})

	t.Run("next at the last page is a no-op", func(t *testing.T) {
		t.Parallel()

		lister := &stubLister{tasks: makeTasks(5)}
		pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

		_, err := pager.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, pager.TotalPages())

		page, err := pager.NextPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, pager.Page())
		assert.Len(t, page.Tasks, 5)
	})

	t.Run("prev at the first page is a no-op", func(t *testing.T) {
		t.Parallel()

		lister := &stubLister{tasks: makeTasks(5)}
		pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

		_, err := pager.PrevPage(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, pager.Page())
	})
}

func TestPagerRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	lister := &stubLister{tasks: makeTasks(5)}
	pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

	_, err := pager.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, lister.callCount())

	// Refresh bypasses the cached entry and fetches again.
	_, err = pager.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.callCount())
}

func TestPagerSupersededLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	lister := &stubLister{tasks: makeTasks(25), block: make(chan struct{})}
	pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

	// First load blocks inside the fetch.
	firstDone := make(chan error, 1)
	go func() {
		_, err := pager.Load(ctx)
		firstDone <- err
	}()

	// Wait for the first fetch to be in flight.
	require.Eventually(t, func() bool {
		return lister.callCount() == 1
	}, time.Second, time.Millisecond)

	// A newer load bumps the generation; release the blocked fetch after it
	// completes.
	lister.mu.Lock()
	release := lister.block
	lister.block = nil
	lister.mu.Unlock()

	_, err := pager.Load(ctx)
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)
}

func TestPagerApplyMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("patches the active page in place", func(t *testing.T) {
		t.Parallel()

		tasks := makeTasks(5)
		lister := &stubLister{tasks: tasks}
		pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

		_, err := pager.Load(ctx)
		require.NoError(t, err)

		updated := tasks[2]
		updated.Status = domain.TaskStatusInProgress
		updated.Title = "renamed"
		pager.ApplyMutation(ctx, updated)

		// The patched copy is visible without another fetch.
		page, err := pager.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, lister.callCount())
		assert.Equal(t, domain.TaskStatusInProgress, page.Tasks[2].Status)
		assert.Equal(t, "renamed", page.Tasks[2].Title)
	})

	t.Run("task absent from the active page is a no-op", func(t *testing.T) {
		t.Parallel()

		lister := &stubLister{tasks: makeTasks(5)}
		pager := NewPager(New(NewMemoryBacking(), nil), lister, nil, 10, nil)

		_, err := pager.Load(ctx)
		require.NoError(t, err)

		stranger := makeTasks(1)[0]
		pager.ApplyMutation(ctx, stranger)

		page, err := pager.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, lister.callCount())
		assert.Len(t, page.Tasks, 5)
	})

	t.Run("rewrite restarts the entry TTL", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		cache := New(NewMemoryBacking(), nil, WithClock(clock.Now))
		tasks := makeTasks(5)
		lister := &stubLister{tasks: tasks}
		pager := NewPager(cache, lister, nil, 10, nil)

		_, err := pager.Load(ctx)
		require.NoError(t, err)

		clock.Advance(4 * time.Minute)

		updated := tasks[0]
		updated.Status = domain.TaskStatusCompleted
		pager.ApplyMutation(ctx, updated)

		// Nine minutes after the original fetch, four after the patch:
		// the rewritten entry is still fresh.
		clock.Advance(4 * time.Minute)
		page, err := pager.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, lister.callCount())
		assert.Equal(t, domain.TaskStatusCompleted, page.Tasks[0].Status)
	})
}
