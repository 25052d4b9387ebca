// Package mapping holds the per-media-type property mapping models that
// control which exported keys are kept, renamed or dropped.
package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/varoOP/mediadb/internal/media"
)

type Action string

const (
	ActionDefault Action = "default"
	ActionRemap   Action = "remap"
	ActionRemove  Action = "remove"
)

func (a Action) Valid() bool {
	switch a {
	case ActionDefault, ActionRemap, ActionRemove:
		return true
	}
	return false
}

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrLockedProperty  = errors.New("property is locked")
	ErrEmptyNewKey     = errors.New("remap requires a new key")
	ErrInvalidAction   = errors.New("invalid mapping action")
)

// ConflictError lists remap targets that are used more than once or that
// collide with a key kept under its original name.
type ConflictError struct {
	Type media.MediaType
	Keys []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting property names in %s mapping: %s", e.Type, strings.Join(e.Keys, ", "))
}

// PropertyMapping is the rule for one exported key.
type PropertyMapping struct {
	Key     string `yaml:"key" json:"key"`
	NewKey  string `yaml:"newKey" json:"newKey"`
	Mapping Action `yaml:"mapping" json:"mapping"`
	Locked  bool   `yaml:"locked" json:"locked"`
}

// target is the key the property is exported under, or "" when removed.
func (p PropertyMapping) target() string {
	switch {
	case p.Locked:
		return p.Key
	case p.Mapping == ActionRemove:
		return ""
	case p.Mapping == ActionRemap && strings.TrimSpace(p.NewKey) != "":
		return strings.TrimSpace(p.NewKey)
	}
	return p.Key
}

// Model is the ordered list of property mappings of one media type.
type Model struct {
	Type       media.MediaType   `yaml:"type" json:"type"`
	Properties []PropertyMapping `yaml:"properties" json:"properties"`
}

func isLockedKey(key string) bool {
	switch key {
	case media.TypeKey, media.IDKey, media.DataSourceKey:
		return true
	}
	return false
}

// NewDefaultModel returns a model with one default entry for each key that
// a record of type t exports.
func NewDefaultModel(t media.MediaType) (*Model, error) {
	r, err := media.Default(t)
	if err != nil {
		return nil, err
	}
	keys := media.ToMetaData(r).Keys()
	m := &Model{Type: t, Properties: make([]PropertyMapping, 0, len(keys))}
	for _, k := range keys {
		m.Properties = append(m.Properties, PropertyMapping{
			Key:     k,
			Mapping: ActionDefault,
			Locked:  isLockedKey(k),
		})
	}
	return m, nil
}

// Copy returns an independent copy for editing. Edits become visible only
// once the copy replaces the original.
func (m *Model) Copy() *Model {
	c := &Model{Type: m.Type, Properties: make([]PropertyMapping, len(m.Properties))}
	copy(c.Properties, m.Properties)
	return c
}

func (m *Model) index(key string) int {
	for i, p := range m.Properties {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Set changes the rule for key. Locked keys only accept the default action.
func (m *Model) Set(key string, action Action, newKey string) error {
	i := m.index(key)
	if i < 0 {
		return errors.Wrapf(ErrUnknownProperty, "%s: %q", m.Type, key)
	}
	if !action.Valid() {
		return errors.Wrapf(ErrInvalidAction, "%q", action)
	}
	p := &m.Properties[i]
	if p.Locked && action != ActionDefault {
		return errors.Wrapf(ErrLockedProperty, "%s: %q", m.Type, key)
	}
	newKey = strings.TrimSpace(newKey)
	switch action {
	case ActionRemap:
		if newKey == "" {
			return errors.Wrapf(ErrEmptyNewKey, "%s: %q", m.Type, key)
		}
		p.NewKey = newKey
	case ActionDefault, ActionRemove:
		p.NewKey = ""
	}
	p.Mapping = action
	return nil
}

// Validate reports remap targets that would collide in exported output.
func (m *Model) Validate() error {
	seen := make(map[string]int)
	for _, p := range m.Properties {
		if t := p.target(); t != "" {
			seen[t]++
		}
	}
	var conflicts []string
	for k, n := range seen {
		if n > 1 {
			conflicts = append(conflicts, k)
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	sort.Strings(conflicts)
	return &ConflictError{Type: m.Type, Keys: conflicts}
}

// Apply returns md with the model's rules applied. Every key of md is looked
// up once and emitted under its target in md's order, so rules never act on
// each other's output. Keys without a rule pass through unchanged and md
// itself is never modified.
func (m *Model) Apply(md *media.Metadata) *media.Metadata {
	if m == nil {
		return md.Clone()
	}
	rules := make(map[string]PropertyMapping, len(m.Properties))
	for _, p := range m.Properties {
		rules[p.Key] = p
	}

	out := media.NewMetadata()
	src := md.Clone()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		target := k
		if p, ok := rules[k]; ok {
			target = p.target()
		}
		if target == "" {
			continue
		}
		out.Set(target, v)
	}
	return out
}

// Invert maps exported keys back to their original names in one pass over
// md. Removed keys cannot be recovered and stay absent.
func (m *Model) Invert(md *media.Metadata) *media.Metadata {
	if m == nil {
		return md.Clone()
	}
	originals := make(map[string]string)
	for _, p := range m.Properties {
		if t := p.target(); t != "" && t != p.Key {
			originals[t] = p.Key
		}
	}

	out := media.NewMetadata()
	src := md.Clone()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		if orig, ok := originals[k]; ok {
			k = orig
		}
		out.Set(k, v)
	}
	return out
}

// Sanitize repairs rules that are not expressible through Set: locked keys
// and unknown actions become default and remaps without a new key become
// default too. It reports whether anything changed.
func (m *Model) Sanitize() bool {
	changed := false
	for i := range m.Properties {
		p := &m.Properties[i]
		wantLocked := isLockedKey(p.Key)
		if p.Locked != wantLocked {
			p.Locked = wantLocked
			changed = true
		}
		if p.Locked || !p.Mapping.Valid() ||
			(p.Mapping == ActionRemap && strings.TrimSpace(p.NewKey) == "") {
			if p.Mapping != ActionDefault || p.NewKey != "" {
				p.Mapping = ActionDefault
				p.NewKey = ""
				changed = true
			}
			continue
		}
		if p.Mapping != ActionRemap && p.NewKey != "" {
			p.NewKey = ""
			changed = true
		}
	}
	return changed
}

// ResetConflicts turns every remap involved in a conflict back into a default
// rule and returns the affected keys.
func (m *Model) ResetConflicts() []string {
	var reset []string
	for {
		var ce *ConflictError
		if err := m.Validate(); !errors.As(err, &ce) {
			return reset
		}
		conflicting := make(map[string]struct{}, len(ce.Keys))
		for _, k := range ce.Keys {
			conflicting[k] = struct{}{}
		}
		progressed := false
		for i := range m.Properties {
			p := &m.Properties[i]
			if p.Mapping != ActionRemap {
				continue
			}
			if _, ok := conflicting[p.target()]; ok {
				p.Mapping = ActionDefault
				p.NewKey = ""
				reset = append(reset, p.Key)
				progressed = true
			}
		}
		if !progressed {
			return reset
		}
	}
}

// Extend aligns the model with the keys its media type exports today:
// entries for missing keys are appended as defaults and entries for keys no
// longer exported are dropped. Existing rules and their order are kept.
func (m *Model) Extend() error {
	def, err := NewDefaultModel(m.Type)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(def.Properties))
	for _, p := range def.Properties {
		known[p.Key] = struct{}{}
	}

	kept := m.Properties[:0:0]
	present := make(map[string]struct{}, len(m.Properties))
	for _, p := range m.Properties {
		if _, ok := known[p.Key]; !ok {
			continue
		}
		if _, dup := present[p.Key]; dup {
			continue
		}
		present[p.Key] = struct{}{}
		kept = append(kept, p)
	}
	for _, p := range def.Properties {
		if _, ok := present[p.Key]; !ok {
			kept = append(kept, p)
		}
	}
	m.Properties = kept
	return nil
}
