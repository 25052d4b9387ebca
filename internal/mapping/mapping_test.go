package mapping

import (
	"errors"
	"reflect"
	"testing"

	"github.com/varoOP/mediadb/internal/media"
)

func newModel(t *testing.T, mt media.MediaType) *Model {
	t.Helper()
	m, err := NewDefaultModel(mt)
	if err != nil {
		t.Fatalf("NewDefaultModel(%q) error = %v", mt, err)
	}
	return m
}

func TestNewDefaultModel(t *testing.T) {
	for _, mt := range media.AllTypes() {
		t.Run(string(mt), func(t *testing.T) {
			m := newModel(t, mt)
			r, _ := media.Default(mt)
			keys := media.ToMetaData(r).Keys()
			if len(m.Properties) != len(keys) {
				t.Fatalf("got %d properties, want %d", len(m.Properties), len(keys))
			}
			for i, p := range m.Properties {
				if p.Key != keys[i] {
					t.Errorf("property %d = %q, want %q", i, p.Key, keys[i])
				}
				if p.Mapping != ActionDefault || p.NewKey != "" {
					t.Errorf("property %q = %+v, want default", p.Key, p)
				}
				if want := p.Key == "type" || p.Key == "id" || p.Key == "dataSource"; p.Locked != want {
					t.Errorf("property %q locked = %v, want %v", p.Key, p.Locked, want)
				}
			}
		})
	}

	if _, err := NewDefaultModel("podcast"); !errors.Is(err, media.ErrUnsupportedType) {
		t.Errorf("NewDefaultModel(podcast) error = %v", err)
	}
}

func TestModelSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		action  Action
		newKey  string
		wantErr error
	}{
		{name: "remap", key: "title", action: ActionRemap, newKey: "name"},
		{name: "remove", key: "plot", action: ActionRemove},
		{name: "unknown key", key: "nope", action: ActionRemove, wantErr: ErrUnknownProperty},
		{name: "locked remove", key: "id", action: ActionRemove, wantErr: ErrLockedProperty},
		{name: "locked remap", key: "type", action: ActionRemap, newKey: "kind", wantErr: ErrLockedProperty},
		{name: "locked default", key: "dataSource", action: ActionDefault},
		{name: "empty new key", key: "title", action: ActionRemap, newKey: "  ", wantErr: ErrEmptyNewKey},
		{name: "bad action", key: "title", action: "rename", wantErr: ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, media.TypeMovie)
			err := m.Set(tt.key, tt.action, tt.newKey)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Set() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			p := m.Properties[m.index(tt.key)]
			if p.Mapping != tt.action {
				t.Errorf("Mapping = %q, want %q", p.Mapping, tt.action)
			}
		})
	}
}

func TestCopyIsIndependent(t *testing.T) {
	m := newModel(t, media.TypeBook)
	c := m.Copy()
	if err := c.Set("title", ActionRemove, ""); err != nil {
		t.Fatal(err)
	}
	if m.Properties[m.index("title")].Mapping != ActionDefault {
		t.Error("editing a copy changed the original")
	}
}

func TestApply(t *testing.T) {
	m := newModel(t, media.TypeMovie)
	if err := m.Set("title", ActionRemap, "name"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("plot", ActionRemove, ""); err != nil {
		t.Fatal(err)
	}
	// Unreachable through Set, honored as default.
	m.Properties[m.index("id")].Mapping = ActionRemove
	m.Properties[m.index("year")] = PropertyMapping{Key: "year", Mapping: ActionRemap}

	md := media.NewMetadata()
	md.Set("type", "movie")
	md.Set("title", "Dune")
	md.Set("year", "2021")
	md.Set("id", "tt1160419")
	md.Set("plot", "Spice.")
	md.Set("custom", "kept")

	got := m.Apply(md)
	if want := []string{"type", "name", "year", "id", "custom"}; !reflect.DeepEqual(got.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", got.Keys(), want)
	}
	if v, _ := got.Get("name"); v != "Dune" {
		t.Errorf("name = %v", v)
	}
	if want := []string{"type", "title", "year", "id", "plot", "custom"}; !reflect.DeepEqual(md.Keys(), want) {
		t.Errorf("input modified: %v", md.Keys())
	}

	var nilModel *Model
	if got := nilModel.Apply(md); !reflect.DeepEqual(got.Keys(), md.Keys()) {
		t.Errorf("nil model Apply() = %v", got.Keys())
	}
}

func TestApplyCollisionLastWins(t *testing.T) {
	m := &Model{Type: media.TypeMovie, Properties: []PropertyMapping{
		{Key: "title", Mapping: ActionRemap, NewKey: "name"},
		{Key: "englishTitle", Mapping: ActionRemap, NewKey: "name"},
	}}
	md := media.NewMetadata()
	md.Set("title", "Dune")
	md.Set("englishTitle", "Dune (EN)")

	got := m.Apply(md)
	if v, _ := got.Get("name"); v != "Dune (EN)" {
		t.Errorf("name = %v, want last applied value", v)
	}
	if got.Len() != 1 {
		t.Errorf("Keys() = %v", got.Keys())
	}
}

func TestInvert(t *testing.T) {
	m := newModel(t, media.TypeSeries)
	_ = m.Set("title", ActionRemap, "name")
	_ = m.Set("episodes", ActionRemap, "eps")

	md := media.NewMetadata()
	md.Set("name", "Severance")
	md.Set("eps", 19)
	md.Set("id", "1")

	got := m.Invert(md)
	if want := []string{"title", "episodes", "id"}; !reflect.DeepEqual(got.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", got.Keys(), want)
	}
}

func TestApplyRulesDoNotInteract(t *testing.T) {
	tests := []struct {
		name     string
		edits    [][3]string
		want     map[string]any
		wantKeys []string
	}{
		{
			name:     "swap",
			edits:    [][3]string{{"title", "remap", "plot"}, {"plot", "remap", "title"}},
			want:     map[string]any{"plot": "Dune", "title": "Sand", "year": "2021"},
			wantKeys: []string{"plot", "title", "year"},
		},
		{
			name:     "chain",
			edits:    [][3]string{{"title", "remap", "plot"}, {"plot", "remap", "summary"}},
			want:     map[string]any{"plot": "Dune", "summary": "Sand", "year": "2021"},
			wantKeys: []string{"plot", "summary", "year"},
		},
		{
			name:     "remap into removed key",
			edits:    [][3]string{{"title", "remap", "plot"}, {"plot", "remove", ""}},
			want:     map[string]any{"plot": "Dune", "year": "2021"},
			wantKeys: []string{"plot", "year"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, media.TypeMovie)
			for _, e := range tt.edits {
				if err := m.Set(e[0], Action(e[1]), e[2]); err != nil {
					t.Fatal(err)
				}
			}
			if err := m.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			md := media.NewMetadata()
			md.Set("title", "Dune")
			md.Set("plot", "Sand")
			md.Set("year", "2021")

			got := m.Apply(md)
			if !reflect.DeepEqual(got.Map(), tt.want) {
				t.Errorf("Apply() = %v, want %v", got.Map(), tt.want)
			}
			if !reflect.DeepEqual(got.Keys(), tt.wantKeys) {
				t.Errorf("Keys() = %v, want %v", got.Keys(), tt.wantKeys)
			}

			back := m.Invert(got)
			want := map[string]any{"title": "Dune", "plot": "Sand", "year": "2021"}
			if tt.name == "remap into removed key" {
				delete(want, "plot")
			}
			if !reflect.DeepEqual(back.Map(), want) {
				t.Errorf("Invert() = %v, want %v", back.Map(), want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edits [][3]string
		want  []string
	}{
		{name: "no edits"},
		{name: "distinct remaps", edits: [][3]string{{"title", "remap", "name"}, {"year", "remap", "released_in"}}},
		{name: "duplicate targets", edits: [][3]string{{"title", "remap", "name"}, {"englishTitle", "remap", "name"}}, want: []string{"name"}},
		{name: "target equals kept key", edits: [][3]string{{"title", "remap", "year"}}, want: []string{"year"}},
		{name: "target equals removed key", edits: [][3]string{{"year", "remove", ""}, {"title", "remap", "year"}}},
		{name: "target equals locked key", edits: [][3]string{{"title", "remap", "id"}}, want: []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, media.TypeMovie)
			for _, e := range tt.edits {
				if err := m.Set(e[0], Action(e[1]), e[2]); err != nil {
					t.Fatal(err)
				}
			}
			err := m.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var ce *ConflictError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() error = %v, want ConflictError", err)
			}
			if !reflect.DeepEqual(ce.Keys, tt.want) {
				t.Errorf("Keys = %v, want %v", ce.Keys, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	m := &Model{Type: media.TypeGame, Properties: []PropertyMapping{
		{Key: "id", Mapping: ActionRemove},
		{Key: "title", Mapping: ActionRemap},
		{Key: "image", Mapping: "hide"},
		{Key: "genres", Mapping: ActionRemove, NewKey: "x"},
		{Key: "platforms", Mapping: ActionRemap, NewKey: "systems"},
	}}
	if !m.Sanitize() {
		t.Fatal("Sanitize() reported no change")
	}
	want := []PropertyMapping{
		{Key: "id", Mapping: ActionDefault, Locked: true},
		{Key: "title", Mapping: ActionDefault},
		{Key: "image", Mapping: ActionDefault},
		{Key: "genres", Mapping: ActionRemove},
		{Key: "platforms", Mapping: ActionRemap, NewKey: "systems"},
	}
	if !reflect.DeepEqual(m.Properties, want) {
		t.Errorf("Properties = %+v\nwant %+v", m.Properties, want)
	}
	if m.Sanitize() {
		t.Error("second Sanitize() reported a change")
	}
}

func TestExtend(t *testing.T) {
	m := &Model{Type: media.TypeWiki, Properties: []PropertyMapping{
		{Key: "article", Mapping: ActionRemove},
		{Key: "gone", Mapping: ActionRemap, NewKey: "x"},
		{Key: "title", Mapping: ActionRemap, NewKey: "name"},
	}}
	if err := m.Extend(); err != nil {
		t.Fatal(err)
	}
	if m.Properties[0].Key != "article" || m.Properties[0].Mapping != ActionRemove {
		t.Errorf("first entry = %+v", m.Properties[0])
	}
	if m.Properties[1].Key != "title" || m.Properties[1].NewKey != "name" {
		t.Errorf("second entry = %+v", m.Properties[1])
	}
	if m.index("gone") >= 0 {
		t.Error("stale entry kept")
	}
	def := newModel(t, media.TypeWiki)
	if len(m.Properties) != len(def.Properties) {
		t.Errorf("got %d entries, want %d", len(m.Properties), len(def.Properties))
	}
}

func TestModelsMerge(t *testing.T) {
	stored := Models{
		{Type: media.TypeMovie, Properties: []PropertyMapping{
			{Key: "title", Mapping: ActionRemap, NewKey: "name"},
			{Key: "englishTitle", Mapping: ActionRemap, NewKey: "name"},
			{Key: "plot", Mapping: ActionRemove},
		}},
		{Type: "podcast"},
		{Type: "Movie"},
	}

	merged, repairs := DefaultModels().Merge(stored)
	if len(merged) != len(media.AllTypes()) {
		t.Fatalf("got %d models", len(merged))
	}
	movie, ok := merged.ForType(media.TypeMovie)
	if !ok {
		t.Fatal("no movie model")
	}
	if err := movie.Validate(); err != nil {
		t.Errorf("merged model invalid: %v", err)
	}
	if p := movie.Properties[movie.index("plot")]; p.Mapping != ActionRemove {
		t.Errorf("plot = %+v, want remove kept", p)
	}
	want := []Repair{
		{Type: media.TypeMovie, Reset: []string{"title", "englishTitle"}},
		{Type: "podcast", Dropped: true},
		{Type: "Movie", Dropped: true},
	}
	if !reflect.DeepEqual(repairs, want) {
		t.Errorf("repairs = %+v, want %+v", repairs, want)
	}
	if _, ok := merged.ForType("podcast"); ok {
		t.Error("unknown stored type merged")
	}
}
