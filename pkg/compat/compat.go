/*
Package compat assembles the compatibility layer wallet code runs against:
buffer codecs, the extension storage, runtime and tabs APIs, the crypto
primitives and the native bridge. Everything is created by New and passed
explicitly, nothing is installed globally.
*/
package compat

import (
	"fmt"

	"github.com/mochimo/mochiwallet-shell/pkg/bridge"
	"github.com/mochimo/mochiwallet-shell/pkg/buffer"
	"github.com/mochimo/mochiwallet-shell/pkg/chrome/runtime"
	"github.com/mochimo/mochiwallet-shell/pkg/chrome/storage"
	"github.com/mochimo/mochiwallet-shell/pkg/chrome/tabs"
	"github.com/mochimo/mochiwallet-shell/pkg/config"
	"github.com/mochimo/mochiwallet-shell/pkg/crypto"
	"github.com/mochimo/mochiwallet-shell/pkg/eventloop"
	"github.com/mochimo/mochiwallet-shell/pkg/kvstore"
	"github.com/mochimo/mochiwallet-shell/pkg/serializer"
	"github.com/mochimo/mochiwallet-shell/pkg/services/metrics"
	"go.uber.org/zap"
)

// Chrome is the extension API namespace.
type Chrome struct {
	Runtime *runtime.Runtime
	Tabs    *tabs.Tabs
	Storage *storage.Storage
}

// Environment is the capability bundle handed to wallet code.
type Environment struct {
	// MobileHost tells wallet code it runs inside the mobile host.
	MobileHost bool
	Buffer     *buffer.Registry
	Chrome     Chrome
	Crypto     crypto.Primitives
	Bridge     bridge.Bridge
	// Loop delivers runtime responses and SendMessage callbacks. Nothing in
	// the Environment drives it: the host has to call Loop.Run or Loop.Drain
	// for them to fire.
	Loop *eventloop.Loop
	// Metrics is the Prometheus service, nil unless enabled in the
	// configuration.
	Metrics *metrics.Service

	store     kvstore.Store
	ownsStore bool
	log       *zap.Logger
}

type options struct {
	log     *zap.Logger
	store   kvstore.Store
	codecs  []buffer.Codec
	bridge  bridge.Bridge
	crypto  *crypto.Primitives
	loop    *eventloop.Loop
	ordered bool
}

// Option customizes New.
type Option func(*options)

// WithLogger sets the logger for every component.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithStore uses store instead of opening the configured one. The caller
// keeps ownership of it, Close doesn't close it.
func WithStore(store kvstore.Store) Option {
	return func(o *options) { o.store = store }
}

// WithCodecs adds native codecs taking priority over the built-in ones.
func WithCodecs(codecs ...buffer.Codec) Option {
	return func(o *options) { o.codecs = append(o.codecs, codecs...) }
}

// WithBridge sets the native bridge, LogBridge is used by default.
func WithBridge(b bridge.Bridge) Option {
	return func(o *options) { o.bridge = b }
}

// WithCrypto sets the crypto primitives, crypto.Default() is used by
// default.
func WithCrypto(p crypto.Primitives) Option {
	return func(o *options) { o.crypto = &p }
}

// WithLoop sets the event loop runtime responses are delivered by.
func WithLoop(l *eventloop.Loop) Option {
	return func(o *options) { o.loop = l }
}

// WithOrderedObjects makes storage return objects with their key order
// preserved.
func WithOrderedObjects() Option {
	return func(o *options) { o.ordered = true }
}

// New creates the Environment for cfg. Runtime responses are queued on
// Environment.Loop which the caller runs. The Prometheus service is started
// if cfg enables it.
func New(cfg config.ApplicationConfiguration, opts ...Option) (*Environment, error) {
	var o options
	for _, f := range opts {
		f(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	e := &Environment{
		MobileHost: cfg.MobileHost,
		Buffer:     buffer.NewRegistry(o.codecs...),
		store:      o.store,
		log:        o.log,
	}
	if e.store == nil {
		store, err := kvstore.NewStore(cfg.DBConfiguration)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		e.store = store
		e.ownsStore = true
	}

	e.Loop = o.loop
	if e.Loop == nil {
		e.Loop = eventloop.New(o.log)
	}

	serOpts := []serializer.Option{serializer.WithLogger(o.log)}
	if o.ordered {
		serOpts = append(serOpts, serializer.WithOrderedObjects())
	}
	e.Chrome = Chrome{
		Runtime: runtime.New(e.Loop,
			runtime.WithID(cfg.ExtensionID),
			runtime.WithAssetRoot(cfg.AssetRoot),
			runtime.WithLogger(o.log)),
		Tabs:    tabs.New(assetRoot(cfg)),
		Storage: storage.New(e.store, serializer.New(serOpts...), o.log),
	}

	if o.crypto != nil {
		e.Crypto = *o.crypto
	} else {
		e.Crypto = crypto.Default()
	}
	crypto.Check(o.log, e.Crypto)

	e.Bridge = o.bridge
	if e.Bridge == nil {
		e.Bridge = bridge.NewLogBridge(o.log, bridge.DeviceInfo{})
	}

	if cfg.Prometheus.Enabled {
		e.Metrics = metrics.NewPrometheusService(cfg.Prometheus, o.log)
		if err := e.Metrics.Start(); err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("failed to start metrics: %w", err)
		}
	}

	o.log.Info("compatibility layer initialized",
		zap.Bool("mobileHost", e.MobileHost),
		zap.String("extensionID", e.Chrome.Runtime.ID()),
		zap.Strings("encodings", encodingNames(e.Buffer)))
	return e, nil
}

// Store returns the native store storage is backed by.
func (e *Environment) Store() kvstore.Store {
	return e.store
}

// Close stops the metrics service and releases the store if it was opened
// by New.
func (e *Environment) Close() error {
	if e.Metrics != nil {
		e.Metrics.ShutDown()
	}
	if !e.ownsStore {
		return nil
	}
	return e.store.Close()
}

func assetRoot(cfg config.ApplicationConfiguration) string {
	if cfg.AssetRoot == "" {
		return config.DefaultAssetRoot
	}
	return cfg.AssetRoot
}

func encodingNames(r *buffer.Registry) []string {
	encs := r.Encodings()
	res := make([]string, len(encs))
	for i := range encs {
		res[i] = string(encs[i])
	}
	return res
}
