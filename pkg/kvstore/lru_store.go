package kvstore

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// LRUCachedStore is a write-through read cache in front of a persistent
// Store. Missing keys are not cached.
type LRUCachedStore struct {
	// Guards cache consistency between the lower store and the cache,
	// lru.Cache itself is thread-safe.
	mut   sync.Mutex
	cache *lru.Cache
	ps    Store
}

// NewLRUCachedStore wraps lower with a cache of size entries.
func NewLRUCachedStore(lower Store, size int) (*LRUCachedStore, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &LRUCachedStore{cache: c, ps: lower}, nil
}

// Get implements the Store interface.
func (s *LRUCachedStore) Get(key string) (string, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.(string), nil
	}
	s.mut.Lock()
	defer s.mut.Unlock()
	v, err := s.ps.Get(key)
	if err != nil {
		return "", err
	}
	s.cache.Add(key, v)
	return v, nil
}

// Put implements the Store interface.
func (s *LRUCachedStore) Put(key, value string) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	if err := s.ps.Put(key, value); err != nil {
		s.cache.Remove(key)
		return err
	}
	s.cache.Add(key, value)
	return nil
}

// Delete implements the Store interface.
func (s *LRUCachedStore) Delete(key string) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.cache.Remove(key)
	return s.ps.Delete(key)
}

// Clear implements the Store interface.
func (s *LRUCachedStore) Clear() error {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.cache.Purge()
	return s.ps.Clear()
}

// Seek implements the Store interface, it always goes to the lower store.
func (s *LRUCachedStore) Seek(prefix string, f func(k, v string) bool) {
	s.ps.Seek(prefix, f)
}

// Close implements the Store interface.
func (s *LRUCachedStore) Close() error {
	s.cache.Purge()
	return s.ps.Close()
}
