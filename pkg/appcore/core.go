package appcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/randalmurphal/appcore/pkg/appcore/config"
	aerrors "github.com/randalmurphal/appcore/pkg/appcore/errors"
	"github.com/randalmurphal/appcore/pkg/appcore/event"
	"github.com/randalmurphal/appcore/pkg/appcore/httpreq"
	"github.com/randalmurphal/appcore/pkg/appcore/observability"
	"github.com/randalmurphal/appcore/pkg/appcore/storage"
)

// ErrDestroyed is returned by a Core after it has been destroyed.
var ErrDestroyed = errors.New("appcore: instance destroyed")

// Core bundles an event registry, a key/value store, a config store and an
// HTTP client behind one handle.
//
// A Core is safe for concurrent use. Once destroyed it no longer accepts
// calls; obtain a fresh one from the Accessor.
type Core struct {
	events  *event.Registry
	storage *storage.Store
	config  *config.Store
	http    *httpreq.Client
	logger  *slog.Logger

	destroyed atomic.Bool
}

// New creates a Core with empty state.
func New(opts ...Option) *Core {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newCore(o)
}

func newCore(o options) *Core {
	cfg := o.config
	if cfg == nil {
		cfg = config.New(nil)
	}
	return &Core{
		events: event.NewRegistry(event.RegistryConfig{
			Policy:  o.policy,
			Logger:  o.logger,
			Metrics: o.metrics,
			OnPanic: o.onPanic,
		}),
		storage: storage.New(
			storage.WithLogger(o.logger),
			storage.WithMetrics(o.metrics),
		),
		config: cfg,
		http:   httpreq.NewClient(o.httpOptions()...),
		logger: o.logger,
	}
}

// On registers handler for eventType. See event.Registry.On.
func (c *Core) On(eventType string, handler event.Handler) (*event.Subscription, error) {
	if c.destroyed.Load() {
		return nil, fmt.Errorf("on %q: %w", eventType, ErrDestroyed)
	}
	return c.events.On(eventType, handler)
}

// Off removes handler from eventType. See event.Registry.Off.
func (c *Core) Off(eventType string, handler event.Handler) error {
	if c.destroyed.Load() {
		return fmt.Errorf("off %q: %w", eventType, ErrDestroyed)
	}
	return c.events.Off(eventType, handler)
}

// Emit calls the handlers registered for eventType with data.
func (c *Core) Emit(ctx context.Context, eventType string, data any) error {
	if c.destroyed.Load() {
		return fmt.Errorf("emit %q: %w", eventType, ErrDestroyed)
	}
	return c.events.Emit(ctx, eventType, data)
}

// StorageGet returns the value stored under key. A destroyed Core reports
// every key as absent.
func (c *Core) StorageGet(key string) (any, bool) {
	if c.destroyed.Load() {
		return nil, false
	}
	return c.storage.Get(key)
}

// StorageSet stores value under key. A nil value is rejected.
func (c *Core) StorageSet(key string, value any) error {
	if c.destroyed.Load() {
		return fmt.Errorf("storage set %q: %w", key, ErrDestroyed)
	}
	return c.storage.Set(key, value)
}

// StorageRemove deletes key. Removing an absent key is not an error.
func (c *Core) StorageRemove(key string) error {
	if c.destroyed.Load() {
		return fmt.Errorf("storage remove %q: %w", key, ErrDestroyed)
	}
	return c.storage.Remove(key)
}

// SetConfigProp overwrites an existing config property. Unknown sections
// and keys are rejected and leave the store unchanged.
func (c *Core) SetConfigProp(section, key, value string) error {
	if c.destroyed.Load() {
		return fmt.Errorf("set config %s.%s: %w", section, key, ErrDestroyed)
	}
	err := c.config.SetProp(section, key, value)
	if aerrors.IsInvalidArgument(err) {
		observability.LogInvalidArgument(c.logger, err)
	}
	return err
}

// HTTP returns the HTTP client.
func (c *Core) HTTP() *httpreq.Client { return c.http }

// Events returns the event registry.
func (c *Core) Events() *event.Registry { return c.events }

// Storage returns the key/value store.
func (c *Core) Storage() *storage.Store { return c.storage }

// Config returns the config store.
func (c *Core) Config() *config.Store { return c.config }

// Destroyed reports whether the Core has been destroyed.
func (c *Core) Destroyed() bool { return c.destroyed.Load() }

// destroy clears the registry and the store and detaches the Core.
// The config store is left untouched. Safe to call more than once.
func (c *Core) destroy() {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}
	types := c.events.Clear()
	keys := c.storage.Clear()
	observability.LogDestroy(c.logger, types, keys)
}
