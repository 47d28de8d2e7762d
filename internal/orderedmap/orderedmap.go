// Package orderedmap provides a JSON object that preserves insertion order,
// since Go's map type does not and the debug snapshot projection needs a
// stable, predictable key order for human-readable output.
package orderedmap

import (
	"bytes"
	"encoding/json"
)

// Map is an insertion-ordered string-keyed JSON object.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Set assigns value to key, appending key to the iteration order on first
// use and leaving the order unchanged on overwrite.
func (m *Map) Set(key string, value any) *Map {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value at key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len reports the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// MarshalJSON renders the map as a JSON object with keys in insertion
// order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
