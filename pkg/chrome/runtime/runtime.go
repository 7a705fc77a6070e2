/*
Package runtime implements a stand-in for the extension runtime messaging
API. There is no background process behind it: every message is
acknowledged and session requests get fixed answers delivered on a later
event loop turn.
*/
package runtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mochimo/mochiwallet-shell/pkg/eventloop"
	"github.com/mochimo/mochiwallet-shell/pkg/future"
	"go.uber.org/zap"
)

const (
	// DefaultID is the extension ID reported when none is configured.
	DefaultID = "android-webview-mock"
	// DefaultAssetRoot is the URL prefix of packaged extension files.
	DefaultAssetRoot = "file:///android_asset/"
)

// Ack is the acknowledgment SendMessage resolves with.
type Ack struct {
	Success bool `json:"success"`
}

// ConnectInfo is the optional Connect argument.
type ConnectInfo struct {
	Name string
}

// Runtime is the extension runtime stand-in.
type Runtime struct {
	id        string
	assetRoot string
	loop      *eventloop.Loop
	log       *zap.Logger

	lock      sync.Mutex
	listeners []func(any)
}

// Option configures Runtime.
type Option func(*Runtime)

// WithID sets the extension ID.
func WithID(id string) Option {
	return func(r *Runtime) {
		if id != "" {
			r.id = id
		}
	}
}

// WithAssetRoot sets the GetURL prefix.
func WithAssetRoot(root string) Option {
	return func(r *Runtime) {
		if root != "" {
			r.assetRoot = root
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runtime) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates Runtime posting deferred deliveries to loop.
func New(loop *eventloop.Loop, opts ...Option) *Runtime {
	r := &Runtime{
		id:        DefaultID,
		assetRoot: DefaultAssetRoot,
		loop:      loop,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ID returns the extension ID.
func (r *Runtime) ID() string {
	return r.id
}

// GetURL returns the URL of a packaged file.
func (r *Runtime) GetURL(path string) string {
	return r.assetRoot + path
}

// Connect opens a new Port. Ports without a name get a random one.
func (r *Runtime) Connect(info ConnectInfo) *Port {
	name := info.Name
	if name == "" {
		name = uuid.NewString()
	}
	r.log.Debug("port connected", zap.String("name", name))
	return newPort(name, r.loop, r.log)
}

// SendMessage acknowledges msg. The returned future is already resolved,
// cb (if not nil) is called on a later loop turn.
func (r *Runtime) SendMessage(msg any, cb func(Ack)) *future.Future[Ack] {
	ack := Ack{Success: true}
	if ce := r.log.Check(zap.DebugLevel, "message sent"); ce != nil {
		ce.Write(zap.Any("message", msg))
	}
	if cb != nil {
		r.loop.Post(func() { cb(ack) })
	}
	return future.Resolved(ack)
}

// OnMessage registers a listener for messages sent to the extension. There
// is no sender, so listeners are never called.
func (r *Runtime) OnMessage(fn func(any)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.listeners = append(r.listeners, fn)
}
