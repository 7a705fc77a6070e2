/*
Package storage implements the extension storage API (local and sync areas)
on top of a native string key-value store. Values are encoded with the
serializer package so binary leaves survive the text-only store.
*/
package storage

import (
	"errors"

	"github.com/mochimo/mochiwallet-shell/pkg/future"
	"github.com/mochimo/mochiwallet-shell/pkg/kvstore"
	"github.com/mochimo/mochiwallet-shell/pkg/serializer"
	"go.uber.org/zap"
)

// Area is a storage area. Every operation completes before returning,
// failures on individual keys are logged and never abort the whole call.
type Area struct {
	name  string
	store kvstore.Store
	ser   *serializer.Serializer
	log   *zap.Logger
}

// Storage holds the storage areas. Sync is the same area as Local.
type Storage struct {
	Local *Area
	Sync  *Area
}

// NewArea creates an Area over store. Nil serializer and logger are replaced
// with defaults.
func NewArea(name string, store kvstore.Store, ser *serializer.Serializer, log *zap.Logger) *Area {
	if ser == nil {
		ser = serializer.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Area{
		name:  name,
		store: store,
		ser:   ser,
		log:   log.With(zap.String("area", name)),
	}
}

// New creates Storage with a single "local" area also used for sync.
func New(store kvstore.Store, ser *serializer.Serializer, log *zap.Logger) *Storage {
	local := NewArea("local", store, ser, log)
	return &Storage{Local: local, Sync: local}
}

// Name returns area name.
func (a *Area) Name() string {
	return a.name
}

// Get returns the items selected by keys.
func (a *Area) Get(keys Keys) Items {
	countOperation(a.name, "get")
	var (
		res      = make(Items)
		defaults Defaults
		names    []string
	)
	switch k := keys.(type) {
	case nil:
		names = kvstore.Keys(a.store)
	case Defaults:
		defaults = k
		names = k.keys()
	default:
		names = k.keys()
	}
	for _, key := range names {
		v, ok := a.load(key)
		if ok {
			res[key] = v
		} else if dv, ok := defaults[key]; ok {
			res[key] = dv
		}
	}
	return res
}

func (a *Area) load(key string) (any, bool) {
	text, err := a.store.Get(key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			a.log.Warn("failed to read item", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if text == "" {
		return nil, false
	}
	v, err := a.ser.Deserialize(text)
	if err != nil {
		countParseFailure(a.name)
		a.log.Error("failed to parse stored item", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return v, true
}

// Set stores every item. Items that can't be serialized or written are
// logged and skipped.
func (a *Area) Set(items Items) {
	countOperation(a.name, "set")
	for key, v := range items {
		text, err := a.ser.Serialize(v)
		if err != nil {
			countSerializeFailure(a.name)
			a.log.Error("failed to serialize item", zap.String("key", key), zap.Error(err))
			continue
		}
		if err = a.store.Put(key, text); err != nil {
			countSerializeFailure(a.name)
			a.log.Error("failed to write item", zap.String("key", key), zap.Error(err))
		}
	}
}

// Remove deletes keys, missing ones are ignored.
func (a *Area) Remove(keys ...string) {
	countOperation(a.name, "remove")
	for _, key := range keys {
		if err := a.store.Delete(key); err != nil {
			a.log.Warn("failed to remove item", zap.String("key", key), zap.Error(err))
		}
	}
}

// Clear deletes every entry of the underlying store.
func (a *Area) Clear() {
	countOperation(a.name, "clear")
	if err := a.store.Clear(); err != nil {
		a.log.Error("failed to clear storage", zap.Error(err))
	}
}

// GetBytesInUse returns the total length of the given keys and their stored
// values, all keys are counted if none are given.
func (a *Area) GetBytesInUse(keys ...string) int {
	countOperation(a.name, "getBytesInUse")
	var total int
	if len(keys) == 0 {
		a.store.Seek("", func(k, v string) bool {
			total += len(k) + len(v)
			return true
		})
		return total
	}
	for _, key := range keys {
		v, err := a.store.Get(key)
		if err == nil {
			total += len(key) + len(v)
		}
	}
	return total
}

// GetAsync is Get for callback and future based callers. cb (if not nil) is
// called before returning, the future is already resolved.
func (a *Area) GetAsync(keys Keys, cb func(Items)) *future.Future[Items] {
	res := a.Get(keys)
	if cb != nil {
		cb(res)
	}
	return future.Resolved(res)
}

// SetAsync is Set for callback and future based callers.
func (a *Area) SetAsync(items Items, cb func()) *future.Future[struct{}] {
	a.Set(items)
	return complete(cb)
}

// RemoveAsync is Remove for callback and future based callers.
func (a *Area) RemoveAsync(keys []string, cb func()) *future.Future[struct{}] {
	a.Remove(keys...)
	return complete(cb)
}

// ClearAsync is Clear for callback and future based callers.
func (a *Area) ClearAsync(cb func()) *future.Future[struct{}] {
	a.Clear()
	return complete(cb)
}

func complete(cb func()) *future.Future[struct{}] {
	if cb != nil {
		cb()
	}
	return future.Resolved(struct{}{})
}
