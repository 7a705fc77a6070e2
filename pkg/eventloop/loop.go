/*
Package eventloop implements a single-threaded cooperative task queue. Tasks
posted to the loop never run in the poster's call stack, they run on a later
turn driven either by Run or by explicit RunOnce/Drain calls.
*/
package eventloop

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Loop is the task queue. Post is safe for concurrent use, tasks are
// executed sequentially.
type Loop struct {
	log       *zap.Logger
	queueLock sync.Mutex
	queue     []func()
	wake      chan struct{}
	running   *atomic.Bool
	executed  *atomic.Uint64
}

// New creates a Loop. Nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		log:      log,
		wake:     make(chan struct{}, 1),
		running:  atomic.NewBool(false),
		executed: atomic.NewUint64(0),
	}
}

// Post queues fn for a later turn.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.queueLock.Lock()
	l.queue = append(l.queue, fn)
	l.queueLock.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.queueLock.Lock()
	defer l.queueLock.Unlock()
	return len(l.queue)
}

// Executed returns the number of tasks run so far.
func (l *Loop) Executed() uint64 {
	return l.executed.Load()
}

// RunOnce runs the tasks queued before the call and returns their number.
// Tasks posted by them are left for the next turn.
func (l *Loop) RunOnce() int {
	l.queueLock.Lock()
	tasks := l.queue
	l.queue = nil
	l.queueLock.Unlock()

	for _, fn := range tasks {
		l.exec(fn)
	}
	return len(tasks)
}

// Drain runs turns until the queue is empty and returns the total number of
// tasks run.
func (l *Loop) Drain() int {
	var total int
	for {
		n := l.RunOnce()
		if n == 0 {
			return total
		}
		total += n
	}
}

// Run processes tasks until ctx is cancelled. It must be called in a
// separate routine and only once at a time.
func (l *Loop) Run(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		l.log.Warn("event loop is already running")
		return
	}
	defer l.running.Store(false)
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// IsRunning tells whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("event loop task panicked", zap.Any("panic", r))
		}
	}()
	l.executed.Inc()
	fn()
}
