/*
Package future provides a deferred-value handle for operations exposed both
through completion callbacks and through awaitable results.
*/
package future

import (
	"context"
	"sync"
)

// Future is a value that becomes available once. It's safe for concurrent
// use.
type Future[T any] struct {
	lock     sync.Mutex
	done     chan struct{}
	value    T
	resolved bool
	then     []func(T)
}

// New returns an unresolved Future and the function resolving it. Only the
// first resolve call has an effect.
func New[T any]() (*Future[T], func(T)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.resolve
}

// Resolved returns a Future already holding v.
func Resolved[T any](v T) *Future[T] {
	f, resolve := New[T]()
	resolve(v)
	return f
}

func (f *Future[T]) resolve(v T) {
	f.lock.Lock()
	if f.resolved {
		f.lock.Unlock()
		return
	}
	f.value = v
	f.resolved = true
	cbs := f.then
	f.then = nil
	close(f.done)
	f.lock.Unlock()

	for _, cb := range cbs {
		cb(v)
	}
}

// Done returns a channel closed when the value is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Value returns the value and whether it's available yet.
func (f *Future[T]) Value() (T, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.value, f.resolved
}

// Await blocks until the value is available or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		v, _ := f.Value()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then registers cb to be called with the value. If the value is already
// available cb is called immediately in the caller's goroutine, otherwise
// it's called by the resolver.
func (f *Future[T]) Then(cb func(T)) {
	f.lock.Lock()
	if !f.resolved {
		f.then = append(f.then, cb)
		f.lock.Unlock()
		return
	}
	v := f.value
	f.lock.Unlock()
	cb(v)
}
