package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryCapacity bounds the in-process cache entry count.
const DefaultMemoryCapacity = 4096

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process LRU honoring per-entry TTLs. It is the
// default backend for single-instance deployments and the fallback when no
// Redis is configured.
type MemoryStore struct {
	lru        *expirable.LRU[string, memoryEntry]
	defaultTTL time.Duration
}

// NewMemoryStore builds an in-memory store. capacity <= 0 uses the default.
// defaultTTL applies to Set calls that pass no TTL of their own.
func NewMemoryStore(capacity int, defaultTTL time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	// The LRU only bounds capacity; expiry is tracked per entry so callers
	// can mix TTLs within one store, like the Redis backend does.
	return &MemoryStore{
		lru:        expirable.NewLRU[string, memoryEntry](capacity, nil, 0),
		defaultTTL: defaultTTL,
	}
}

// Get implements Store. Expired entries read as misses and are dropped.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	entry, ok := s.lru.Get(key)
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.lru.Remove(key)
		return "", false
	}
	return entry.value, true
}

// Set implements Store. ttl <= 0 falls back to the store default.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.lru.Add(key, entry)
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.lru.Remove(key)
}
