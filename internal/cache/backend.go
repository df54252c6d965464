package cache

import (
	"sync"
	"time"
)

// Backend is the storage contract shared by cache variants. Memory is the
// only variant implemented; the factory in NewManager keeps the selection
// keyed on configuration so further variants slot in without touching
// call sites.
type Backend interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string) bool
	Clear()
}

type entry struct {
	value     any
	expiresAt time.Time
}

// MemoryBackend keeps entries in-process and guards access with a mutex so
// the lazy-expiry read-modify-write in Get stays atomic.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   func() time.Time
}

// MemoryOption configures MemoryBackend behaviour.
type MemoryOption func(*MemoryBackend)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(b *MemoryBackend) {
		b.clock = clock
	}
}

// NewMemoryBackend initialises an empty in-memory backend.
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get returns the live value stored under key. An entry past its expiry is
// evicted here and reported as a miss.
func (b *MemoryBackend) Get(key string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	if b.clock().After(e.expiresAt) {
		delete(b.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key until ttl elapses, overwriting any prior entry.
func (b *MemoryBackend) Set(key string, value any, ttl time.Duration) {
	b.mu.Lock()
	b.entries[key] = entry{value: value, expiresAt: b.clock().Add(ttl)}
	b.mu.Unlock()
}

// Delete removes the entry for key, expired or not, and reports whether an
// entry existed.
func (b *MemoryBackend) Delete(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.entries[key]; !ok {
		return false
	}
	delete(b.entries, key)
	return true
}

// Clear removes every entry unconditionally.
func (b *MemoryBackend) Clear() {
	b.mu.Lock()
	b.entries = make(map[string]entry)
	b.mu.Unlock()
}

// Len reports the number of stored entries, including expired ones that have
// not been read since their expiry.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
