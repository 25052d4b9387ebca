package mapping

import (
	"github.com/varoOP/mediadb/internal/media"
)

// Models is the per-media-type collection persisted in the mapping file.
type Models []*Model

// DefaultModels returns one default model per media type.
func DefaultModels() Models {
	types := media.AllTypes()
	models := make(Models, 0, len(types))
	for _, t := range types {
		// every value of AllTypes is supported
		m, _ := NewDefaultModel(t)
		models = append(models, m)
	}
	return models
}

func (ms Models) ForType(t media.MediaType) (*Model, bool) {
	for _, m := range ms {
		if m != nil && m.Type == t {
			return m, true
		}
	}
	return nil, false
}

// Copy deep-copies every model.
func (ms Models) Copy() Models {
	out := make(Models, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			out = append(out, m.Copy())
		}
	}
	return out
}

// Repair describes what Merge had to change in one stored model. Dropped
// models have a type that is not a known media type, compared case
// sensitively.
type Repair struct {
	Type      media.MediaType
	Dropped   bool
	Sanitized bool
	Reset     []string
}

// Merge layers stored models over the defaults. Stored models of unknown
// types are dropped, the rest are sanitized, extended to the current key set
// and stripped of conflicting remaps. The returned repairs list every stored
// model that needed changes.
func (ms Models) Merge(stored Models) (Models, []Repair) {
	out := ms.Copy()
	var repairs []Repair
	for _, s := range stored {
		if s == nil {
			continue
		}
		if _, err := media.ParseMediaType(string(s.Type)); err != nil {
			repairs = append(repairs, Repair{Type: s.Type, Dropped: true})
			continue
		}
		m := s.Copy()
		sanitized := m.Sanitize()
		if err := m.Extend(); err != nil {
			repairs = append(repairs, Repair{Type: s.Type, Dropped: true})
			continue
		}
		reset := m.ResetConflicts()
		if sanitized || len(reset) > 0 {
			repairs = append(repairs, Repair{Type: m.Type, Sanitized: sanitized, Reset: reset})
		}

		replaced := false
		for i := range out {
			if out[i].Type == m.Type {
				out[i] = m
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, m)
		}
	}
	return out, repairs
}
