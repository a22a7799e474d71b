package config

import (
	"strconv"
	"strings"
	"time"
)

// Section is a read-only snapshot of one config section.
// All accessor methods return the default value if the key is missing
// or the stored string cannot be parsed as the requested type.
type Section struct {
	data map[string]string
}

func newSection(props map[string]string) Section {
	data := make(map[string]string, len(props))
	for k, v := range props {
		data[k] = v
	}
	return Section{data: data}
}

// String returns the value for key, or defaultVal if missing.
func (s Section) String(key, defaultVal string) string {
	v, ok := s.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - a time.ParseDuration string ("30s", "1h30m")
//   - a bare integer or decimal, interpreted as seconds
func (s Section) Duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := s.data[key]
	if !ok {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(f * float64(time.Second))
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or invalid.
// Accepts the forms understood by strconv.ParseBool.
func (s Section) Bool(key string, defaultVal bool) bool {
	v, ok := s.data[key]
	if !ok {
		return defaultVal
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not an integer.
func (s Section) Int(key string, defaultVal int) int {
	v, ok := s.data[key]
	if !ok {
		return defaultVal
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	// "3.0" is still an integer
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal if missing or invalid.
func (s Section) Float(key string, defaultVal float64) float64 {
	v, ok := s.data[key]
	if !ok {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return defaultVal
}

// StringSlice splits a comma-separated value, trimming spaces and dropping
// empty items. Returns defaultVal if the key is missing.
func (s Section) StringSlice(key string, defaultVal []string) []string {
	v, ok := s.data[key]
	if !ok {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Has returns true if the key exists in the section.
func (s Section) Has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Len returns the number of properties.
func (s Section) Len() int {
	return len(s.data)
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (s Section) Raw() map[string]string {
	return s.data
}
