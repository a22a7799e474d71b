package config

import (
	"errors"
	"sort"
	"sync"

	aerrors "github.com/randalmurphal/appcore/pkg/appcore/errors"
)

// Sentinel errors for SetProp.
var (
	// ErrUnknownSection indicates the section does not exist.
	ErrUnknownSection = errors.New("unknown config section")

	// ErrUnknownKey indicates the key does not exist within the section.
	ErrUnknownKey = errors.New("unknown config key")
)

// Store holds string properties grouped into sections.
//
// The set of sections and keys is fixed by whoever builds the Store (New or
// one of the loaders). SetProp only overwrites properties that already
// exist; it never creates a section or a key.
type Store struct {
	mu       sync.RWMutex
	sections map[string]map[string]string
}

// New creates a Store from the given sections. The input is copied.
// If sections is nil, an empty Store is returned.
func New(sections map[string]map[string]string) *Store {
	return &Store{sections: copySections(sections)}
}

// SetProp overwrites the value of an existing property.
//
// If section or key does not exist the Store is unchanged and an invalid
// argument error wrapping ErrUnknownSection or ErrUnknownKey is returned.
func (s *Store) SetProp(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	props, ok := s.sections[section]
	if !ok {
		return aerrors.InvalidWrap("config.SetProp", "section", ErrUnknownSection)
	}
	if _, ok := props[key]; !ok {
		return aerrors.InvalidWrap("config.SetProp", "key", ErrUnknownKey)
	}

	props[key] = value
	return nil
}

// Get returns the value of a property and whether it exists.
func (s *Store) Get(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sections[section][key]
	return v, ok
}

// HasSection returns true if the section exists.
func (s *Store) HasSection(section string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sections[section]
	return ok
}

// Sections returns the section names in sorted order.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Section returns a read-only snapshot of a section with typed accessors.
// A missing section yields an empty Section.
func (s *Store) Section(name string) Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newSection(s.sections[name])
}

// Snapshot returns a deep copy of all sections.
func (s *Store) Snapshot() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySections(s.sections)
}

// Apply copies the values of other into s through SetProp, so properties
// that do not already exist in s are skipped. It returns the number of
// properties whose value changed.
func (s *Store) Apply(other *Store) int {
	if other == nil || other == s {
		return 0
	}

	updated := 0
	for section, props := range other.Snapshot() {
		for key, value := range props {
			if cur, ok := s.Get(section, key); !ok || cur == value {
				continue
			}
			if err := s.SetProp(section, key, value); err == nil {
				updated++
			}
		}
	}
	return updated
}

func copySections(in map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for name, props := range in {
		cp := make(map[string]string, len(props))
		for k, v := range props {
			cp[k] = v
		}
		out[name] = cp
	}
	return out
}
