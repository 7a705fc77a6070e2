package kvstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/mochimo/mochiwallet-shell/pkg/kvstore/dbconfig"
)

// BadgerDBStore is a Store backed by BadgerDB.
type BadgerDBStore struct {
	db *badger.DB
}

// NewBadgerDBStore opens (or creates) BadgerDB in the configured directory.
// Empty directory opens an in-memory instance.
func NewBadgerDBStore(cfg dbconfig.BadgerDBOptions) (*BadgerDBStore, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.Dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithReadOnly(cfg.ReadOnly).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB instance: %w", err)
	}
	return &BadgerDBStore{db: db}, nil
}

// Get implements the Store interface.
func (s *BadgerDBStore) Get(key string) (val string, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		return item.Value(func(v []byte) error {
			val = string(v)
			return nil
		})
	})
	return
}

// Put implements the Store interface.
func (s *BadgerDBStore) Put(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

// Delete implements the Store interface.
func (s *BadgerDBStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear implements the Store interface.
func (s *BadgerDBStore) Clear() error {
	return s.db.DropAll()
}

// Seek implements the Store interface.
func (s *BadgerDBStore) Seek(prefix string, f func(k, v string) bool) {
	p := []byte(prefix)
	_ = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !f(string(item.Key()), string(v)) {
				break
			}
		}
		return nil
	})
}

// Close implements the Store interface.
func (s *BadgerDBStore) Close() error {
	return s.db.Close()
}
