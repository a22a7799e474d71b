// Package storage provides the appcore key/value store: a process-wide
// mapping from string keys to arbitrary values.
package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	aerrors "github.com/randalmurphal/appcore/pkg/appcore/errors"
	"github.com/randalmurphal/appcore/pkg/appcore/observability"
)

// Store is a thread-safe key/value store.
// Keys only ever map to non-nil values; removing a key deletes the mapping.
type Store struct {
	mu      sync.RWMutex
	entries map[string]any

	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]any),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()

	s.metrics.RecordStorageOp(context.Background(), "get", ok)
	return v, ok
}

// Set stores value under key, replacing any previous value.
// A nil value leaves the store unchanged and returns an invalid argument error.
func (s *Store) Set(key string, value any) error {
	if value == nil {
		err := aerrors.Invalid("storage.Set", "value", "must not be nil")
		observability.LogInvalidArgument(s.logger, err)
		s.metrics.RecordStorageOp(context.Background(), "set", false)
		return err
	}

	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()

	s.metrics.RecordStorageOp(context.Background(), "set", true)
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	s.metrics.RecordStorageOp(context.Background(), "remove", ok)
	return nil
}

// Has returns true if key exists.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Range iterates over a snapshot of the store in key order. If fn returns
// false, iteration stops. fn may modify the store.
func (s *Store) Range(fn func(key string, value any) bool) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	snapshot := make(map[string]any, len(s.entries))
	for k, v := range s.entries {
		keys = append(keys, k)
		snapshot[k] = v
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		if !fn(k, snapshot[k]) {
			return
		}
	}
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	for k := range s.entries {
		delete(s.entries, k)
	}
	return n
}
