package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/google/uuid"

	aerrors "github.com/randalmurphal/appcore/pkg/appcore/errors"
	"github.com/randalmurphal/appcore/pkg/appcore/observability"
)

// Handler receives the data passed to Emit.
type Handler func(data any)

// Policy selects how a registry treats a handler that is already registered
// under the same event type. It is fixed for the lifetime of a registry.
type Policy int

const (
	// PolicyDedup skips registration when a handler with the same identity
	// is already registered under the event type.
	PolicyDedup Policy = iota

	// PolicyAppend always appends, so the same handler may run several
	// times per Emit.
	PolicyAppend
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyDedup:
		return "dedup"
	case PolicyAppend:
		return "append"
	default:
		return "unknown"
	}
}

// ErrDuplicateHandler is returned by On under PolicyDedup when the handler is
// already registered. The existing subscription is returned alongside it.
var ErrDuplicateHandler = errors.New("handler already registered")

// HandlerPanicError captures a panic raised by a handler during Emit.
type HandlerPanicError struct {
	// EventType is the type being emitted.
	EventType string
	// SubscriptionID identifies the handler that panicked.
	SubscriptionID string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("event %s: handler %s panicked: %v", e.EventType, e.SubscriptionID, e.Value)
}

// RegistryConfig configures registry behavior.
type RegistryConfig struct {
	// Policy is the registration policy.
	// Default: PolicyDedup
	Policy Policy

	// Logger receives debug and panic logs.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics records emits and handler panics.
	// Default: observability.NoopMetrics{}
	Metrics observability.MetricsRecorder

	// OnPanic is called after a handler panic has been recovered.
	OnPanic func(err *HandlerPanicError)
}

// entry is one registered handler.
type entry struct {
	sub     *Subscription
	handler Handler
}

// Registry maps event types to ordered handler sequences.
// It is safe for concurrent use. Handlers run outside the lock and may call
// back into the registry.
type Registry struct {
	config RegistryConfig

	mu sync.RWMutex
	// Slices stored here are never modified in place below their length,
	// so a slice header read under the lock is a stable snapshot.
	handlers map[string][]entry
}

// NewRegistry creates an empty registry.
func NewRegistry(config RegistryConfig) *Registry {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Metrics == nil {
		config.Metrics = observability.NoopMetrics{}
	}
	return &Registry{
		config:   config,
		handlers: make(map[string][]entry),
	}
}

// Policy returns the registration policy.
func (r *Registry) Policy() Policy {
	return r.config.Policy
}

// handlerKey returns the identity of a handler: its code pointer. Closures
// created from the same function literal share a key.
func handlerKey(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

// On registers handler under eventType and returns its subscription.
//
// An empty eventType or nil handler leaves the registry unchanged and returns
// an invalid argument error. Under PolicyDedup a handler already registered
// under eventType is not added again; the existing subscription is returned
// together with ErrDuplicateHandler.
func (r *Registry) On(eventType string, handler Handler) (*Subscription, error) {
	if eventType == "" {
		return nil, r.reject(aerrors.Invalid("event.On", "eventType", "must not be empty"))
	}
	if handler == nil {
		return nil, r.reject(aerrors.Invalid("event.On", "handler", "must not be nil"))
	}

	key := handlerKey(handler)

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.handlers[eventType]
	if r.config.Policy == PolicyDedup {
		for _, e := range entries {
			if e.sub.key == key {
				return e.sub, ErrDuplicateHandler
			}
		}
	}

	sub := &Subscription{
		id:        uuid.New().String(),
		eventType: eventType,
		key:       key,
		registry:  r,
	}
	r.handlers[eventType] = append(entries, entry{sub: sub, handler: handler})

	return sub, nil
}

// Off removes every handler under eventType with the same identity as
// handler. Removing the last handler removes the event type.
//
// An unknown event type is a no-op. A nil handler is a no-op that returns an
// invalid argument error.
func (r *Registry) Off(eventType string, handler Handler) error {
	if handler == nil {
		return r.reject(aerrors.Invalid("event.Off", "handler", "must not be nil"))
	}

	key := handlerKey(handler)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(eventType, func(e entry) bool {
		return e.sub.key == key
	})
	return nil
}

// Unsubscribe removes exactly the handler registered by sub.
// Unsubscribing twice, or unsubscribing a nil subscription, is a no-op.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil || sub.registry != r {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(sub.eventType, func(e entry) bool {
		return e.sub == sub
	})
}

// removeLocked drops matching entries under eventType. Caller holds r.mu.
func (r *Registry) removeLocked(eventType string, match func(entry) bool) {
	entries, ok := r.handlers[eventType]
	if !ok {
		return
	}

	kept := make([]entry, 0, len(entries))
	for _, e := range entries {
		if match(e) {
			e.sub.removed.Store(true)
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) == 0 {
		delete(r.handlers, eventType)
		return
	}
	r.handlers[eventType] = kept
}

// Emit synchronously calls every handler registered under eventType, in
// registration order, passing data.
//
// The handler sequence is captured when Emit starts: handlers added or
// removed by a handler during the pass do not change which handlers the pass
// calls. An unknown event type is a no-op.
//
// A panicking handler does not stop the pass. Its panic is recovered,
// logged, and returned as a *HandlerPanicError (joined when several panic).
func (r *Registry) Emit(ctx context.Context, eventType string, data any) error {
	r.mu.RLock()
	snapshot := r.handlers[eventType]
	r.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	observability.LogEmit(r.config.Logger, eventType, len(snapshot))
	r.config.Metrics.RecordEmit(ctx, eventType, len(snapshot))

	var errs []error
	for _, e := range snapshot {
		if err := r.invoke(ctx, eventType, e, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// invoke calls one handler, converting a panic into a HandlerPanicError.
func (r *Registry) invoke(ctx context.Context, eventType string, e entry, data any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			perr := &HandlerPanicError{
				EventType:      eventType,
				SubscriptionID: e.sub.id,
				Value:          v,
				Stack:          string(debug.Stack()),
			}
			observability.LogHandlerPanic(r.config.Logger, eventType, e.sub.id, v)
			r.config.Metrics.RecordHandlerPanic(ctx, eventType)
			if r.config.OnPanic != nil {
				r.config.OnPanic(perr)
			}
			err = perr
		}
	}()

	e.handler(data)
	return nil
}

// Has reports whether eventType has at least one handler.
func (r *Registry) Has(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[eventType]
	return ok
}

// Len returns the number of handlers registered under eventType.
func (r *Registry) Len(eventType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[eventType])
}

// Types returns the registered event types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Clear removes every handler and returns how many event types were dropped.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.handlers)
	for eventType, entries := range r.handlers {
		for _, e := range entries {
			e.sub.removed.Store(true)
		}
		delete(r.handlers, eventType)
	}
	return n
}

func (r *Registry) reject(err error) error {
	observability.LogInvalidArgument(r.config.Logger, err)
	return err
}
