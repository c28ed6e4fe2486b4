// Package cache implements the in-process TTL store that shields the
// upstream feeds from repeated requests.
package cache

import (
	"sync"
	"time"

	swx "github.com/solweather/swxgate/internal"
)

// Entry is a timestamped cached payload. Data is owned by the store; callers
// must treat it as read-only.
type Entry struct {
	Data      []byte
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry at the given instant.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is a fixed-capacity map from opaque string key to a timestamped
// payload. Expiry is lazy: an expired entry is removed only when Get probes
// it, so Stats().Size can temporarily include entries past their TTL.
// Eviction under capacity pressure removes the entry with the smallest
// FetchedAt (insertion time, not recency -- this is not LRU), ties broken by
// insertion order.
type Store struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]Entry
	order      []string // insertion order, for the eviction tie-break
	now        func() time.Time
}

// New creates a Store with the given capacity and default TTL. Both must be
// positive; validating that is the caller's job, not a runtime check.
func New(maxEntries int, ttl time.Duration) *Store {
	return &Store{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]Entry, maxEntries),
		order:      make([]string, 0, maxEntries),
		now:        time.Now,
	}
}

// Get returns the live entry for key. An entry past its expiry behaves as
// absent and is deleted as a side effect.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	if e.Expired(s.now()) {
		s.remove(key)
		return Entry{}, false
	}
	return e, true
}

// GetStale returns whatever is stored for key, expired or not, with no
// side effects. It exists solely for the failure-fallback path.
func (s *Store) GetStale(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	return e, ok
}

// Set inserts or overwrites the entry for key. ttlOverride replaces the
// store default when > 0. When the store is at capacity one entry is
// evicted first -- even when key already exists, so an overwrite at the cap
// can displace the oldest entry. At most one entry is evicted per call;
// expired entries are not swept here.
func (s *Store) Set(key string, data []byte, ttlOverride time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := s.ttl
	if ttlOverride > 0 {
		ttl = ttlOverride
	}

	if len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}

	now := s.now()
	s.entries[key] = Entry{
		Data:      data,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Invalidate removes key if present and reports whether a removal occurred.
func (s *Store) Invalidate(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	s.remove(key)
	return true
}

// InvalidateAll clears every entry unconditionally.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry, s.maxEntries)
	s.order = s.order[:0]
}

// Stats returns a snapshot of the store. Size counts entries that have
// expired but not yet been probed by Get.
func (s *Store) Stats() swx.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return swx.CacheStats{
		Size:       len(s.entries),
		MaxEntries: s.maxEntries,
		TTL:        s.ttl,
	}
}

// evictOldest removes the entry with the smallest FetchedAt. The scan walks
// keys in insertion order so the first-encountered minimum wins when several
// entries share a timestamp. Caller must hold s.mu.
func (s *Store) evictOldest() {
	if len(s.order) == 0 {
		return
	}
	oldest := ""
	var oldestAt time.Time
	for _, k := range s.order {
		e, ok := s.entries[k]
		if !ok {
			continue
		}
		if oldest == "" || e.FetchedAt.Before(oldestAt) {
			oldest = k
			oldestAt = e.FetchedAt
		}
	}
	if oldest != "" {
		s.remove(oldest)
	}
}

// remove deletes key from the map and the insertion-order list. Caller must
// hold s.mu.
func (s *Store) remove(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
