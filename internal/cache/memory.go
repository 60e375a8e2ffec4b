// Package cache provides a best-effort in-memory response cache with
// per-entry expiry. It backs the geocoding, weather, and activity-detail
// request caches; absence or expiry of an entry simply triggers a live
// fetch, so nothing here needs to be durable.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Memory is a thread-safe TTL cache keyed by request signature. Expired
// entries are dropped lazily on access and swept opportunistically on write.
type Memory struct {
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty cache. Pass nil to use the real clock; tests
// inject a fake for deterministic expiry.
func NewMemory(clock clockwork.Clock) *Memory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key if present and not expired.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key for the given validity window. A zero or
// negative ttl stores nothing.
func (m *Memory) Put(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}

	// Sweep expired entries while the lock is held; the map stays small
	// (one entry per distinct request signature per run).
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// Len reports the number of live entries, for tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
