package content

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Map is the flat key/value data bound into a structure at render time.
// Values are scalars (string, bool or number).
type Map map[string]interface{}

// ParseMap deserializes a stored content string. A broken or empty document
// recovers to an empty map, so a single corrupt section can not take down the
// rest of the page.
func ParseMap(serialized string) Map {
	if serialized == "" {
		return Map{}
	}
	m := Map{}
	if err := json.UnmarshalFromString(serialized, &m); err != nil {
		return Map{}
	}
	return m
}

// Serialize returns the canonical stored form of the map.
func (m Map) Serialize() string {
	out, err := json.MarshalToString(m)
	if err != nil {
		return "{}"
	}
	return out
}

// Truthy reports whether the value under key counts as set. Missing keys,
// empty strings, false and zero are all falsy.
func (m Map) Truthy(key string) bool {
	value, ok := m[key]
	if !ok || value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}

// Copy returns a shallow copy, it backs the full-content-replace contract of
// the editor.
func (m Map) Copy() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
