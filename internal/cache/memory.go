package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries bounds a MemoryCache created by NewMemoryCache
	DefaultMaxEntries = 10000
	sweepInterval     = time.Minute
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache is an in-process Cache. Expired entries are dropped on read and
// swept on writes at most once a minute. When MaxEntries is reached the entry
// closest to expiry is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	lastSweep  time.Time
	MaxEntries int // zero means unbounded
	Clock      func() time.Time
}

// NewMemoryCache creates an empty in-memory cache holding at most DefaultMaxEntries
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		MaxEntries: DefaultMaxEntries,
		Clock:      time.Now,
	}
}

func (m *MemoryCache) now() time.Time {
	if m.Clock == nil {
		return time.Now()
	}
	return m.Clock()
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	now := m.now()

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}

	if entry.expired(now) {
		m.mu.Lock()
		// The key may have been set again since the read lock was released
		if current, ok := m.entries[key]; ok && current.expired(now) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweepLocked(now)
	}
	if _, exists := m.entries[key]; !exists && m.MaxEntries > 0 && len(m.entries) >= m.MaxEntries {
		m.sweepLocked(now)
		if len(m.entries) >= m.MaxEntries {
			m.evictLocked()
		}
	}
	m.entries[key] = entry
	return nil
}

// sweepLocked drops every expired entry. The caller holds the write lock.
func (m *MemoryCache) sweepLocked(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

// evictLocked drops the entry that expires first, preferring entries with a TTL
func (m *MemoryCache) evictLocked() {
	var victim string
	var victimExpiry time.Time
	found := false
	for k, e := range m.entries {
		switch {
		case !found:
		case e.expiresAt.IsZero():
			continue
		case victimExpiry.IsZero() || e.expiresAt.Before(victimExpiry):
		default:
			continue
		}
		victim, victimExpiry, found = k, e.expiresAt, true
	}
	if found {
		delete(m.entries, victim)
	}
}

// Len reports how many entries are held, including expired ones not yet swept
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
