package kvstore

import (
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory implementation of a Store, it's used in tests
// and for ephemeral sessions.
type MemoryStore struct {
	mut sync.RWMutex
	mem map[string]string
}

// NewMemoryStore creates a new MemoryStore object.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mem: make(map[string]string),
	}
}

// Get implements the Store interface.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	if val, ok := s.mem[key]; ok {
		return val, nil
	}
	return "", ErrKeyNotFound
}

// Put implements the Store interface. Never returns an error.
func (s *MemoryStore) Put(key, value string) error {
	s.mut.Lock()
	s.mem[key] = value
	s.mut.Unlock()
	return nil
}

// Delete implements the Store interface. Never returns an error.
func (s *MemoryStore) Delete(key string) error {
	s.mut.Lock()
	delete(s.mem, key)
	s.mut.Unlock()
	return nil
}

// Clear implements the Store interface. Never returns an error.
func (s *MemoryStore) Clear() error {
	s.mut.Lock()
	s.mem = make(map[string]string)
	s.mut.Unlock()
	return nil
}

// Seek implements the Store interface. f is called without the lock held,
// so it can modify the store.
func (s *MemoryStore) Seek(prefix string, f func(k, v string) bool) {
	type kv struct{ k, v string }
	s.mut.RLock()
	list := make([]kv, 0, len(s.mem))
	for k, v := range s.mem {
		if strings.HasPrefix(k, prefix) {
			list = append(list, kv{k, v})
		}
	}
	s.mut.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		return list[i].k < list[j].k
	})
	for _, e := range list {
		if !f(e.k, e.v) {
			break
		}
	}
}

// Close implements Store interface and clears up memory. Never returns an
// error.
func (s *MemoryStore) Close() error {
	s.mut.Lock()
	s.mem = make(map[string]string)
	s.mut.Unlock()
	return nil
}
