package runtime

import (
	"sync"

	"github.com/mochimo/mochiwallet-shell/pkg/eventloop"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Message types with a dedicated answer.
const (
	CheckSession   = "checkSession"
	StartSession   = "startSession"
	EndSession     = "endSession"
	ExtendSession  = "extendSession"
	RecordActivity = "recordActivity"
)

// Message is a request posted to a Port.
type Message struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	Data      any    `json:"data,omitempty"`
}

// Response is delivered to Port listeners for every accepted Message.
type Response struct {
	MessageID string `json:"messageId"`
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
}

// SessionStatus is the checkSession answer. There is no session backend, so
// it's never active.
type SessionStatus struct {
	Active bool `json:"active"`
}

// Port is a message channel, it lives as long as it's referenced.
type Port struct {
	name   string
	loop   *eventloop.Loop
	log    *zap.Logger
	closed *atomic.Bool

	lock         sync.Mutex
	onMessage    []func(Response)
	onDisconnect []func(*Port)
}

func newPort(name string, loop *eventloop.Loop, log *zap.Logger) *Port {
	return &Port{
		name:   name,
		loop:   loop,
		log:    log.With(zap.String("port", name)),
		closed: atomic.NewBool(false),
	}
}

// Name returns port name.
func (p *Port) Name() string {
	return p.name
}

// OnMessage registers a response listener.
func (p *Port) OnMessage(fn func(Response)) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.onMessage = append(p.onMessage, fn)
}

// OnDisconnect registers a disconnection listener. Disconnect doesn't call
// them, only the other side of a real channel would.
func (p *Port) OnDisconnect(fn func(*Port)) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.onDisconnect = append(p.onDisconnect, fn)
}

// Disconnect closes the port, messages posted afterwards are dropped.
func (p *Port) Disconnect() {
	p.closed.Store(true)
}

// PostMessage answers msg on a later loop turn. Messages without type or ID
// get no answer.
func (p *Port) PostMessage(msg Message) {
	if p.closed.Load() {
		p.log.Debug("message posted to disconnected port dropped", zap.String("type", msg.Type))
		return
	}
	if msg.Type == "" || msg.MessageID == "" {
		p.log.Debug("message without type or id ignored")
		return
	}
	resp := answer(msg)
	p.loop.Post(func() {
		p.lock.Lock()
		listeners := make([]func(Response), len(p.onMessage))
		copy(listeners, p.onMessage)
		p.lock.Unlock()
		for _, fn := range listeners {
			fn(resp)
		}
	})
}

func answer(msg Message) Response {
	resp := Response{MessageID: msg.MessageID, Success: true}
	switch msg.Type {
	case CheckSession:
		resp.Data = SessionStatus{Active: false}
	case StartSession, EndSession, ExtendSession, RecordActivity:
	default:
		resp.Data = map[string]any{}
	}
	return resp
}
