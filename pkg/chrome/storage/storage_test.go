package storage

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/mochimo/mochiwallet-shell/pkg/buffer"
	"github.com/mochimo/mochiwallet-shell/pkg/kvstore"
	"github.com/mochimo/mochiwallet-shell/pkg/serializer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStorage(t *testing.T) (*Storage, kvstore.Store) {
	store := kvstore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return New(store, nil, zaptest.NewLogger(t)), store
}

func randomBytes(t *testing.T, n int) buffer.Bytes {
	b := make(buffer.Bytes, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestSyncIsLocal(t *testing.T) {
	s, _ := newTestStorage(t)
	require.Same(t, s.Local, s.Sync)
	s.Sync.Set(Items{"a": "b"})
	require.Equal(t, Items{"a": "b"}, s.Local.Get(Key("a")))
}

func TestGetSingleKey(t *testing.T) {
	s, _ := newTestStorage(t)
	require.Empty(t, s.Local.Get(Key("missing")))

	s.Local.Set(Items{"name": "wallet"})
	require.Equal(t, Items{"name": "wallet"}, s.Local.Get(Key("name")))
}

func TestGetDefaults(t *testing.T) {
	s, store := newTestStorage(t)
	s.Local.Set(Items{"stored": "value", "broken": "x"})
	require.NoError(t, store.Put("broken", `{"__type":"Uint8Array","__data":[`))

	res := s.Local.Get(Defaults{
		"stored":  "default-1",
		"broken":  "default-2",
		"missing": map[string]any{"nested": true},
	})
	require.Equal(t, Items{
		"stored":  "value",
		"broken":  "default-2",
		"missing": map[string]any{"nested": true},
	}, res)
}

func TestGetListSkipsCorrupted(t *testing.T) {
	s, store := newTestStorage(t)
	s.Local.Set(Items{"a": true, "c": nil})
	require.NoError(t, store.Put("b", "{not json"))
	require.NoError(t, store.Put("d", ""))

	before := testutil.ToFloat64(parseFailures.WithLabelValues("local"))
	res := s.Local.Get(KeyList{"a", "b", "c", "d", "e"})
	require.Equal(t, Items{"a": true, "c": nil}, res)
	require.Equal(t, before+1, testutil.ToFloat64(parseFailures.WithLabelValues("local")))
}

func TestGetAll(t *testing.T) {
	s, _ := newTestStorage(t)
	require.Empty(t, s.Local.Get(nil))
	s.Local.Set(Items{"a": "1", "b": "2"})
	require.Equal(t, Items{"a": "1", "b": "2"}, s.Local.Get(nil))
}

func TestBinaryRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t)
	seq := randomBytes(t, 32)
	legacy := buffer.Legacy{0, 1, 255}
	s.Local.Set(Items{"a": seq, "l": legacy})

	res := s.Local.Get(KeyList{"a", "l"})
	require.Equal(t, seq, res["a"])
	require.IsType(t, buffer.Legacy{}, res["l"])
	require.Equal(t, "Buffer", res["l"].(buffer.Legacy).Type())

	res = s.Local.Get(Defaults{"a": nil})
	require.Equal(t, seq, res["a"])
}

func TestSetSkipsBadValues(t *testing.T) {
	s, _ := newTestStorage(t)
	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	type node struct {
		Next any
	}
	n := &node{}
	n.Next = map[string]any{"back": n}

	before := testutil.ToFloat64(serializeFailures.WithLabelValues("local"))
	s.Local.Set(Items{"good": "ok", "cyclic": cyclic, "chan": make(chan int), "node": n})
	require.Equal(t, Items{"good": "ok"}, s.Local.Get(nil))
	require.Equal(t, before+3, testutil.ToFloat64(serializeFailures.WithLabelValues("local")))
}

func TestRemoveAndClear(t *testing.T) {
	s, _ := newTestStorage(t)
	s.Local.Remove("never-set")

	s.Local.Set(Items{"a": "1", "b": "2", "c": "3"})
	s.Local.Remove("a", "missing")
	require.Equal(t, Items{"b": "2", "c": "3"}, s.Local.Get(KeyList{"a", "b", "c"}))

	s.Local.Clear()
	require.Empty(t, s.Local.Get(KeyList{"a", "b", "c"}))
	require.Empty(t, s.Local.Get(Key("b")))
}

func TestGetBytesInUse(t *testing.T) {
	s, _ := newTestStorage(t)
	require.Equal(t, 0, s.Local.GetBytesInUse())
	s.Local.Set(Items{"ab": "x", "c": 12})
	require.Equal(t, len("ab")+len(`"x"`), s.Local.GetBytesInUse("ab", "missing"))
	require.Equal(t, len("ab")+len(`"x"`)+len("c")+len("12"), s.Local.GetBytesInUse())
}

func TestTransactionScenario(t *testing.T) {
	s, _ := newTestStorage(t)
	sig := randomBytes(t, 64)
	s.Local.Set(Items{"tx": map[string]any{
		"amount": big.NewInt(5000),
		"sig":    sig,
	}})

	res := s.Local.Get(Defaults{"tx": map[string]any{}})
	require.Equal(t, Items{"tx": map[string]any{
		"amount": serializer.Number("5000"),
		"sig":    sig,
	}}, res)
}

func TestAsyncAdapters(t *testing.T) {
	s, _ := newTestStorage(t)

	var setCalled bool
	f := s.Local.SetAsync(Items{"k": "v"}, func() { setCalled = true })
	require.True(t, setCalled)
	_, ok := f.Value()
	require.True(t, ok)

	var fromCallback Items
	gf := s.Local.GetAsync(Key("k"), func(items Items) { fromCallback = items })
	fromFuture, ok := gf.Value()
	require.True(t, ok)
	require.Equal(t, Items{"k": "v"}, fromCallback)
	require.Equal(t, fromCallback, fromFuture)

	// Nil callback is fine.
	_, ok = s.Local.GetAsync(Key("k"), nil).Value()
	require.True(t, ok)

	var removed bool
	s.Local.RemoveAsync([]string{"k"}, func() { removed = true })
	require.True(t, removed)
	require.Empty(t, s.Local.Get(Key("k")))

	var cleared bool
	s.Local.Set(Items{"x": 1})
	s.Local.ClearAsync(func() { cleared = true })
	require.True(t, cleared)
	require.Empty(t, s.Local.Get(nil))
}

type failingStore struct {
	kvstore.Store
}

var errBroken = errors.New("broken")

func (failingStore) Get(string) (string, error) { return "", errBroken }
func (failingStore) Put(string, string) error   { return errBroken }
func (failingStore) Delete(string) error        { return errBroken }
func (failingStore) Clear() error               { return errBroken }

func TestStoreFailuresAreLogged(t *testing.T) {
	a := NewArea("local", failingStore{kvstore.NewMemoryStore()}, nil, zaptest.NewLogger(t))
	require.NotPanics(t, func() {
		a.Set(Items{"a": "b"})
		a.Remove("a")
		a.Clear()
	})
	require.Equal(t, Items{"a": 1}, a.Get(Defaults{"a": 1}))
	require.Equal(t, "local", a.Name())
}
