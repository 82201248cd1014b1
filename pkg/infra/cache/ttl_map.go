// Package cache provides the in-process TTL cache the classifier client
// keeps its policy catalog in.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLMap is a mutex-guarded map whose entries expire a fixed duration
// after they were written. Expired entries are evicted lazily on read;
// with a handful of policy keys a sweeper goroutine is not worth having.
type TTLMap struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the live value for key, or false when the key is absent or
// its entry has expired.
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.evict(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key and restarts its TTL.
func (m *TTLMap) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// Delete drops key regardless of its remaining TTL.
func (m *TTLMap) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear drops every entry, forcing the next reads to refetch.
func (m *TTLMap) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

// evict re-checks expiry under the write lock so a concurrent Set is
// never thrown away.
func (m *TTLMap) evict(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
	}
}
