package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a Store from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML of the form section -> key -> scalar into a Store.
func FromYAML(data []byte) (*Store, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return fromMap(m)
}

// FromJSON parses JSON of the form section -> key -> scalar into a Store.
func FromJSON(data []byte) (*Store, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return fromMap(m)
}

// fromMap converts decoded data into sections. Scalars are stored in their
// string form; anything nested below a section key is rejected.
func fromMap(m map[string]any) (*Store, error) {
	sections := make(map[string]map[string]string, len(m))
	for name, raw := range m {
		props := make(map[string]string)
		switch sec := raw.(type) {
		case nil:
			// "section:" with no keys
		case map[string]any:
			for key, v := range sec {
				s, err := scalarString(v)
				if err != nil {
					return nil, fmt.Errorf("section %q key %q: %w", name, key, err)
				}
				props[key] = s
			}
		default:
			return nil, fmt.Errorf("section %q: expected a mapping, got %T", name, raw)
		}
		sections[name] = props
	}
	return New(sections), nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
