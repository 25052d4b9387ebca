package media

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Metadata is an insertion-ordered map of export keys to values. Key order is
// kept through every operation because it is visible in rendered front matter.
type Metadata struct {
	keys   []string
	values map[string]any
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// MetadataFromMap builds Metadata from m using the given key order. Keys of m
// missing from order are appended in no particular order.
func MetadataFromMap(m map[string]any, order []string) *Metadata {
	md := NewMetadata()
	for _, k := range order {
		if v, ok := m[k]; ok {
			md.Set(k, v)
		}
	}
	for k, v := range m {
		if !md.Has(k) {
			md.Set(k, v)
		}
	}
	return md
}

func (m *Metadata) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set replaces the value of an existing key in place or appends a new key.
// Setting on a nil Metadata does nothing.
func (m *Metadata) Set(key string, v any) {
	if m == nil {
		return
	}
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Metadata) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = removeKey(m.keys, key)
}

// Rename moves the value of from to to, keeping from's position. An entry
// already stored under to is dropped. Rename reports whether from existed.
func (m *Metadata) Rename(from, to string) bool {
	if m == nil {
		return false
	}
	v, ok := m.values[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	if _, exists := m.values[to]; exists {
		delete(m.values, to)
		m.keys = removeKey(m.keys, to)
	}
	for i, k := range m.keys {
		if k == from {
			m.keys[i] = to
			break
		}
	}
	delete(m.values, from)
	m.values[to] = v
	return true
}

func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy. Sequences and nested maps are copied.
func (m *Metadata) Clone() *Metadata {
	c := NewMetadata()
	if m == nil {
		return c
	}
	for _, k := range m.keys {
		c.Set(k, cloneValue(m.values[k]))
	}
	return c
}

// Map returns an unordered deep copy of the entries.
func (m *Metadata) Map() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out[k] = cloneValue(m.values[k])
	}
	return out
}

func (m *Metadata) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.Keys() {
		var key, value yaml.Node
		if err := key.Encode(k); err != nil {
			return nil, errors.Wrapf(err, "failed to encode key %q", k)
		}
		if err := value.Encode(m.values[k]); err != nil {
			return nil, errors.Wrapf(err, "failed to encode value of %q", k)
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping node, keeping the document key order.
func (m *Metadata) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("expected a mapping, got yaml kind %d at line %d", node.Kind, node.Line)
	}
	m.keys = nil
	m.values = make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return errors.Wrapf(err, "failed to decode value of %q", node.Content[i].Value)
		}
		m.Set(node.Content[i].Value, v)
	}
	return nil
}

func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal value of %q", k)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return cloneStrings(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	}
	return v
}
