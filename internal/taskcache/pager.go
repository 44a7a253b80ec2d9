package taskcache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// ErrSuperseded is returned when a page load resolves after a newer load was
// issued for the same pager. The stale response is discarded instead of
// overwriting the newer page's state.
var ErrSuperseded = errors.New("page load superseded by a newer request")

// Lister is the paginated task-listing collaborator the pager fetches from
// on a cache miss.
type Lister interface {
	List(ctx context.Context, filters map[string]string, page, pageSize int) (tasks []domain.Task, total int, err error)
}

// Pager drives a cached, paginated task listing for one filter set. Page
// navigation is bounds-checked against the total page count, and every load
// carries a generation number so that a response resolving after a newer
// request is discarded rather than winning by arriving last.
type Pager struct {
	cache    *Cache
	lister   Lister
	filters  map[string]string
	pageSize int
	logger   *slog.Logger

	mu         sync.Mutex
	page       int
	totalPages int
	generation uint64
}

// NewPager creates a Pager over the given cache and listing collaborator.
// The filter set is fixed for the pager's lifetime; a new filter set means a
// new pager. If logger is nil, the default logger is used.
func NewPager(cache *Cache, lister Lister, filters map[string]string, pageSize int, logger *slog.Logger) *Pager {
	if cache == nil || lister == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("cache and lister are required for Pager")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pager{
		cache:      cache,
		lister:     lister,
		filters:    filters,
		pageSize:   pageSize,
		logger:     logger.With(slog.String("component", "pager")),
		page:       1,
		totalPages: 1,
	}
}

// Page returns the current page number.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// TotalPages returns the page count reported by the last successful load.
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// Load returns the current page, consulting the cache first and fetching
// from the listing collaborator on a miss. A successful fetch populates the
// cache. If a newer load was issued while this one was in flight, the result
// is discarded and ErrSuperseded is returned.
func (p *Pager) Load(ctx context.Context) (Page, error) {
	p.mu.Lock()
	page := p.page
	p.generation++
	generation := p.generation
	key := ComputeKey(p.filters, page, p.pageSize)
	p.mu.Unlock()

	if cached, ok := p.cache.Get(ctx, key); ok {
		return cached, nil
	}

	// The fetch runs outside the lock so a newer request can start while
	// this one is in flight.
	tasks, total, err := p.lister.List(ctx, p.filters, page, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		p.logger.Debug("discarding superseded page response",
			slog.Int("page", page),
			slog.Uint64("generation", generation))
		return Page{}, ErrSuperseded
	}

	if err != nil {
		return Page{}, err
	}

	result := Page{
		Tasks:      tasks,
		TotalPages: totalPages(total, p.pageSize),
	}
	p.totalPages = result.TotalPages

	if err := p.cache.Put(ctx, key, result); err != nil {
		p.logger.Warn("failed to cache listing page",
			slog.Int("page", page),
			slog.String("error", err.Error()))
	}

	return result, nil
}

// NextPage advances to the next page and loads it. Out of bounds it is a
// no-op and the current page is loaded instead.
func (p *Pager) NextPage(ctx context.Context) (Page, error) {
	p.mu.Lock()
	if p.page < p.totalPages {
		p.page++
	}
	p.mu.Unlock()

	return p.Load(ctx)
}

// PrevPage moves back one page and loads it. Out of bounds it is a no-op
// and the current page is loaded instead.
func (p *Pager) PrevPage(ctx context.Context) (Page, error) {
	p.mu.Lock()
	if p.page > 1 {
		p.page--
	}
	p.mu.Unlock()

	return p.Load(ctx)
}

// Refresh discards the cached entry for the current page and loads it fresh.
func (p *Pager) Refresh(ctx context.Context) (Page, error) {
	p.mu.Lock()
	key := ComputeKey(p.filters, p.page, p.pageSize)
	p.mu.Unlock()

	p.cache.Evict(ctx, key)
	return p.Load(ctx)
}

// ApplyMutation patches the cached copy of the given task on the currently
// active page and rewrites the entry, restarting its TTL from the mutation
// instant. Pages other than the active one are deliberately left untouched;
// their stale copies age out through the TTL. A task absent from the active
// page is a no-op, not an error.
func (p *Pager) ApplyMutation(ctx context.Context, updated domain.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := ComputeKey(p.filters, p.page, p.pageSize)

	cached, ok := p.cache.Get(ctx, key)
	if !ok {
		return
	}

	patched := false
	for i := range cached.Tasks {
		if cached.Tasks[i].ID == updated.ID {
			cached.Tasks[i] = updated
			patched = true
			break
		}
	}
	if !patched {
		return
	}

	if err := p.cache.Put(ctx, key, cached); err != nil {
		p.logger.Warn("failed to rewrite patched page",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// totalPages converts a total row count into a page count, never below 1.
func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
