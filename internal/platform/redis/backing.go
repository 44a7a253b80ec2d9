// Package redis provides the Redis-backed implementation of the listing
// cache's backing store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskpulse/taskpulse-api/internal/taskcache"
)

// maxEntryAge bounds how long entries survive server-side. Freshness is
// decided by the cache's own timestamps; this only keeps abandoned keys
// from accumulating.
const maxEntryAge = time.Hour

// NewClient creates and returns a new Redis client for the given address.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		PoolSize:     10,
	})
}

// Backing stores cache entries in Redis.
type Backing struct {
	client *redis.Client
}

// NewBacking creates a Redis-backed store for the listing cache.
func NewBacking(client *redis.Client) *Backing {
	if client == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("redis client cannot be nil for Backing")
	}
	return &Backing{client: client}
}

var _ taskcache.Backing = (*Backing)(nil)

// Get implements taskcache.Backing.Get.
func (b *Backing) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements taskcache.Backing.Set.
func (b *Backing) Set(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, key, data, maxEntryAge).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete implements taskcache.Backing.Delete.
func (b *Backing) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
