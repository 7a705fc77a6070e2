package future

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolved(t *testing.T) {
	f := Resolved(42)
	v, ok := f.Value()
	require.True(t, ok)
	require.Equal(t, 42, v)

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, v)

	var got int
	f.Then(func(x int) { got = x })
	require.Equal(t, 42, got)
}

func TestResolveOnce(t *testing.T) {
	f, resolve := New[string]()
	_, ok := f.Value()
	require.False(t, ok)

	var calls []string
	f.Then(func(s string) { calls = append(calls, s) })
	require.Empty(t, calls)

	resolve("first")
	resolve("second")
	require.Equal(t, []string{"first"}, calls)

	v, ok := f.Value()
	require.True(t, ok)
	require.Equal(t, "first", v)
}

func TestAwait(t *testing.T) {
	f, resolve := New[int]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		resolve(7)
	}()
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, v)

	pending, _ := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = pending.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
