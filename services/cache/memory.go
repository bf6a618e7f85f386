package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryService implements CacheService as an in-process map with lazy
// expiry and a size bound. Entries past their TTL are evicted on the lookup
// that finds them stale; when the store is full, expired entries are dropped
// first and the oldest entry after that.
type MemoryService struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int

	now func() time.Time
}

// NewMemoryService creates a new in-memory cache bounded to maxEntries.
// A non-positive bound means unbounded.
func NewMemoryService(maxEntries int) *MemoryService {
	return &MemoryService{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value, treating an expired entry as a miss and evicting it
func (m *MemoryService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value with an expiration time, evicting if the store is full
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 {
		if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
			m.evictLocked()
		}
	}

	now := m.now()
	m.entries[key] = memoryEntry{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(expiration),
	}
	return nil
}

// Delete removes a value from the cache
func (m *MemoryService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// evictLocked drops expired entries, then the oldest entry if still full
func (m *MemoryService) evictLocked() {
	now := m.now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
