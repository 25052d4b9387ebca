// Package migrate reconciles persisted records written by older versions of
// the record model with the current model.
//
// Reconciliation is driven by the reference record's declared fields, never
// by the keys of the legacy data: new fields get their default, removed
// fields are dropped and fields whose value has the wrong shape fall back to
// the default. Nothing here returns an error or panics on malformed input.
package migrate

import (
	"fmt"

	"github.com/varoOP/mediadb/internal/media"
)

// Reconcile returns a new record of the reference's type whose fields come
// from legacy when present and compatible, and from reference otherwise.
// Neither argument is modified.
func Reconcile(reference media.Record, legacy any) media.Record {
	out := media.Clone(reference)
	media.Normalize(out)

	m, ok := asMap(legacy)
	if !ok {
		return out
	}
	assign(media.Fields(out), m)
	if ud, ok := asMap(m[media.UserDataKey]); ok {
		assign(media.UserDataFields(out), ud)
	}
	return out
}

// Build constructs a record of type t from a partial map, as produced by a
// vendor adapter. Missing or mistyped fields keep their defaults.
func Build(t media.MediaType, partial map[string]any) (media.Record, error) {
	ref, err := media.Default(t)
	if err != nil {
		return nil, err
	}
	return Reconcile(ref, partial), nil
}

// FromPartial reads the type discriminant of partial and builds the record.
func FromPartial(partial map[string]any) (media.Record, error) {
	raw, ok := partial[media.TypeKey]
	if !ok {
		return nil, &media.UnsupportedTypeError{Type: ""}
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &media.UnsupportedTypeError{Type: fmt.Sprint(raw)}
	}
	t, err := media.ParseMediaType(s)
	if err != nil {
		return nil, err
	}
	return Build(t, partial)
}

// FromFrontMatter reconciles a flattened read-back, where user fields sit at
// the top level, against reference. A nested userData map is honored too;
// top-level values win over it.
func FromFrontMatter(reference media.Record, flat map[string]any) media.Record {
	userKeys := make(map[string]struct{})
	for _, f := range media.UserDataFields(reference) {
		userKeys[f.Name] = struct{}{}
	}

	nested := make(map[string]any, len(flat))
	ud := make(map[string]any)
	if existing, ok := asMap(flat[media.UserDataKey]); ok {
		for k, v := range existing {
			ud[k] = v
		}
	}
	for k, v := range flat {
		if k == media.UserDataKey {
			continue
		}
		if _, ok := userKeys[k]; ok {
			ud[k] = v
			continue
		}
		nested[k] = v
	}
	nested[media.UserDataKey] = ud
	return Reconcile(reference, nested)
}

// ToMap returns the persisted nested shape of r: the type discriminant, base
// and variant fields, and a userData sub-map.
func ToMap(r media.Record) map[string]any {
	out := map[string]any{media.TypeKey: string(r.MediaType())}
	for _, f := range media.Fields(r) {
		out[f.Name] = f.Value()
	}
	ud := make(map[string]any)
	for _, f := range media.UserDataFields(r) {
		ud[f.Name] = f.Value()
	}
	out[media.UserDataKey] = ud
	return out
}

func assign(fields []media.Field, src map[string]any) {
	for _, f := range fields {
		raw, ok := src[f.Name]
		if !ok {
			continue
		}
		v, ok := coerce(f.Kind, raw)
		if !ok {
			continue
		}
		// coerce yields the field's exact type, so Set cannot fail here.
		_ = f.Set(v)
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case *media.Metadata:
		if t == nil {
			return nil, false
		}
		return t.Map(), true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
