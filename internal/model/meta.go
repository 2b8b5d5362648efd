package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// MetaField is a single metadata entry.
type MetaField struct {
	Key   string
	Value string
}

// Meta is transaction metadata. Field order is kept so that output stays
// deterministic; Equal ignores it.
type Meta []MetaField

// Get returns the value stored under key.
func (m Meta) Get(key string) (string, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (m Meta) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in field order.
func (m Meta) Keys() []string {
	keys := make([]string, len(m))
	for i, f := range m {
		keys[i] = f.Key
	}
	return keys
}

// Set returns a copy of m with key set to value. An existing key keeps its position.
func (m Meta) Set(key, value string) Meta {
	out := slices.Clone(m)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, MetaField{Key: key, Value: value})
}

// Sorted returns a copy of m ordered by key.
func (m Meta) Sorted() Meta {
	out := slices.Clone(m)
	slices.SortStableFunc(out, func(a, b MetaField) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Equal reports whether both hold the same key/value pairs, in any order.
func (m Meta) Equal(other Meta) bool {
	if len(m) != len(other) {
		return false
	}
	for _, f := range m {
		v, ok := other.Get(f.Key)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

// MarshalJSON encodes m as a JSON object in field order.
func (m Meta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping the document order.
func (m *Meta) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading meta: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("meta must be a JSON object, got %v", tok)
	}

	var out Meta
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading meta key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("meta key must be a string, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("reading meta value for %q: %w", key, err)
		}
		out = out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading meta: %w", err)
	}
	*m = out
	return nil
}
