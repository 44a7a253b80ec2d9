// Package taskcache provides the time-bounded cache fronting paginated task
// listing reads. Entries carry the instant they were written; a read older
// than the TTL treats the entry as absent and discards it lazily. The cache
// is scoped to one client session and holds no cross-process state.
package taskcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// DefaultTTL is how long a cached page stays fresh.
const DefaultTTL = 5 * time.Minute

// Page is the cached payload for one listing page.
type Page struct {
	Tasks      []domain.Task `json:"tasks"`
	TotalPages int           `json:"totalPages"`
}

// Backing is the key/value store entries are kept in. Implementations exist
// for process memory and Redis. TTL accounting lives in the cache itself, not
// the backing store, so every backend behaves identically.
type Backing interface {
	// Get returns the stored bytes for key and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the bytes under key, overwriting any prior value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// envelope is the stored form of an entry: the payload plus the instant it
// was written, which decides freshness on read.
type envelope struct {
	Data      Page      `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache is a TTL-keyed cache for listing pages with an injected clock and
// backing store. The zero value is not usable; construct with New.
type Cache struct {
	backing Backing
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock replaces the cache's time source. Used by tests to control
// entry freshness deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// New creates a Cache on top of the given backing store.
// If logger is nil, the default logger is used.
func New(backing Backing, logger *slog.Logger, opts ...Option) *Cache {
	if backing == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("backing store cannot be nil for Cache")
	}

	if logger == nil {
		logger = slog.Default()
	}

	cache := &Cache{
		backing: backing,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "taskcache")),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get returns the payload stored under key if the entry is still fresh.
// Stale and corrupt entries are evicted and reported as a miss; backing
// store failures are also reported as a miss so reads degrade to a fetch.
func (c *Cache) Get(ctx context.Context, key string) (Page, bool) {
	data, found, err := c.backing.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache backing read failed, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return Page{}, false
	}
	if !found {
		return Page{}, false
	}

	var entry envelope
	if err := json.Unmarshal(data, &entry); err != nil {
		// Malformed stored entry: discard, never re-throw.
		c.logger.Warn("corrupt cache entry discarded", slog.String("key", key))
		c.evict(ctx, key)
		return Page{}, false
	}

	if c.now().Sub(entry.Timestamp) >= c.ttl {
		c.evict(ctx, key)
		return Page{}, false
	}

	return entry.Data, true
}

// Put stores the payload under key with the current instant as its
// timestamp, overwriting any prior entry and restarting the TTL.
func (c *Cache) Put(ctx context.Context, key string, page Page) error {
	data, err := json.Marshal(envelope{
		Data:      page,
		Timestamp: c.now(),
	})
	if err != nil {
		return err
	}

	return c.backing.Set(ctx, key, data)
}

// Evict removes the entry for key, if any.
func (c *Cache) Evict(ctx context.Context, key string) {
	c.evict(ctx, key)
}

func (c *Cache) evict(ctx context.Context, key string) {
	if err := c.backing.Delete(ctx, key); err != nil {
		c.logger.Warn("cache eviction failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
