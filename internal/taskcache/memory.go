package taskcache

import (
	"context"
	"sync"
)

// MemoryBacking is an in-process Backing implementation. It is the default
// for single-session use and the test double for the Redis backing.
type MemoryBacking struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryBacking creates an empty in-memory backing store.
func NewMemoryBacking() *MemoryBacking {
	return &MemoryBacking{
		entries: make(map[string][]byte),
	}
}

var _ Backing = (*MemoryBacking)(nil)

// Get implements Backing.Get.
func (m *MemoryBacking) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, found := m.entries[key]
	if !found {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the stored bytes.
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Set implements Backing.Set.
func (m *MemoryBacking) Set(ctx context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

// Delete implements Backing.Delete.
func (m *MemoryBacking) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryBacking) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
