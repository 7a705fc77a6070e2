/*
Package kvstore provides the native persistent string store the storage
facade is backed by. Keys and values are strings, there is no expiry and the
store is shared by everything that uses it.
*/
package kvstore

import (
	"errors"
	"fmt"

	"github.com/mochimo/mochiwallet-shell/pkg/kvstore/dbconfig"
)

// ErrKeyNotFound is an error returned by Store implementations when a certain
// key is not found.
var ErrKeyNotFound = errors.New("key not found")

// Store is a synchronous string key-value store.
type Store interface {
	// Get returns the value stored for key or ErrKeyNotFound.
	Get(key string) (string, error)
	// Put stores value for key overwriting previous one.
	Put(key, value string) error
	// Delete removes key, it's not an error if there is no such key.
	Delete(key string) error
	// Clear removes all entries.
	Clear() error
	// Seek calls f for every entry with the given prefix in ascending key
	// order until f returns false. Empty prefix means all entries. f must
	// not modify the store.
	Seek(prefix string, f func(k, v string) bool)
	// Close releases store resources.
	Close() error
}

// NewStore creates a store of the type selected in the configuration.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Type {
	case dbconfig.LevelDB:
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.InMemoryDB:
		store = NewMemoryStore()
	case dbconfig.BoltDB:
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	case dbconfig.BadgerDB:
		store, err = NewBadgerDBStore(cfg.BadgerDBOptions)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheSize > 0 {
		return NewLRUCachedStore(store, cfg.CacheSize)
	}
	return store, nil
}

// Keys returns all keys of s in ascending order.
func Keys(s Store) []string {
	var keys []string
	s.Seek("", func(k, _ string) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}
