package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements an in-memory store for one batch. Entries never
// expire on their own; the whole store is discarded with the batch.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a new memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a value. The found flag distinguishes a stored empty value
// (a confirmed-failed fetch) from a key that was never stored.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	if val, found := s.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value for the remainder of the batch.
func (s *MemoryStore) Set(key string, value []byte) {
	s.cache.Set(key, value, gocache.NoExpiration)
}

// Clear removes all values.
func (s *MemoryStore) Clear() {
	s.cache.Flush()
}
