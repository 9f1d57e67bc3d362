// Package cache provides a small key/value store with TTLs. It backs token
// revocation and the fixed-window rate limiter. Values are JSON encoded so
// the memory and Redis drivers behave the same.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store is implemented by the memory and Redis drivers.
type Store interface {
	// Get unmarshals the value under key into dest and reports a hit.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	// Increment adds one to the counter under key, starting its ttl when the
	// counter is created, and returns the new value.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// ─── Memory driver ────────────────────────────────────────────────────────────

type memoryItem struct {
	value   []byte
	counter int64
	expires time.Time // zero = never
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expires.IsZero() && !now.Before(i.expires)
}

// MemoryStore is a process-local Store. Expired keys are dropped lazily and
// by a periodic sweep once the map grows.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (m *MemoryStore) lookup(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return item, false
	}
	if item.expired(m.now()) {
		delete(m.items, key)
		return item, false
	}
	return item, true
}

func (m *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	item, ok := m.lookup(key)
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	data := item.value
	if data == nil {
		data = []byte(fmt.Sprint(item.counter))
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.items[key] = memoryItem{value: data, expires: m.deadline(ttl)}
	return nil
}

func (m *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.lookup(key)
	if !ok {
		m.sweep()
		item = memoryItem{expires: m.deadline(ttl)}
	}
	item.counter++
	item.value = nil
	m.items[key] = item
	return item.counter, nil
}

func (m *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

// sweep drops expired keys at most once a minute. Caller holds mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	if now.Sub(m.lastSweep) < time.Minute {
		return
	}
	m.lastSweep = now
	for k, item := range m.items {
		if item.expired(now) {
			delete(m.items, k)
		}
	}
}
