package event

import "sync/atomic"

// Subscription is the handle returned by Registry.On. It identifies one
// registered handler, independently of the handler's function value.
type Subscription struct {
	id        string
	eventType string
	key       uintptr
	registry  *Registry
	removed   atomic.Bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// EventType returns the event type the handler is registered under.
func (s *Subscription) EventType() string {
	return s.eventType
}

// Active reports whether the handler is still registered.
func (s *Subscription) Active() bool {
	return !s.removed.Load()
}

// Unsubscribe removes the handler from its registry.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.registry.Unsubscribe(s)
}
