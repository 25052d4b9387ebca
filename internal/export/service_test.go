package export

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/media"
)

func testOptions() Options {
	return Options{
		UseDefaultFrontMatter: true,
		Escaping:              domain.EscapingPosix,
		MaxFileNameLength:     255,
		Templates: map[media.MediaType]string{
			media.TypeMusicRelease: "{{ title }} (by {{ ENUM:artists }} - {{ year }})",
			media.TypeBook:         "{{ title }}: {{ author }}",
		},
	}
}

func TestFrontMatter(t *testing.T) {
	model, err := mapping.NewDefaultModel(media.TypeMovie)
	if err != nil {
		t.Fatal(err)
	}
	_ = model.Set("title", mapping.ActionRemap, "name")
	_ = model.Set("plot", mapping.ActionRemove, "")

	movie := &media.Movie{
		Base:     media.Base{Title: "Dune", Year: "2021", DataSource: "OMDb API", ID: "tt1160419"},
		UserData: media.WatchUserData{Watched: true},
	}
	media.Normalize(movie)

	tests := []struct {
		name        string
		withDefault bool
		models      mapping.Models
		has         []string
		missing     []string
	}{
		{
			name:        "no model",
			withDefault: true,
			has:         []string{"title", "plot", "watched", "tags"},
		},
		{
			name:        "mapped",
			withDefault: true,
			models:      mapping.Models{model},
			has:         []string{"name", "id", "dataSource", "watched"},
			missing:     []string{"title", "plot"},
		},
		{
			name:        "without user data",
			withDefault: false,
			models:      mapping.Models{model},
			has:         []string{"name", "type"},
			missing:     []string{"watched", "personalRating", "tags", "userData"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.UseDefaultFrontMatter = tt.withDefault
			svc := NewService(zerolog.Nop(), opts, tt.models)

			md := svc.FrontMatter(movie)
			for _, k := range tt.has {
				if !md.Has(k) {
					t.Errorf("front matter lacks %q: %v", k, md.Keys())
				}
			}
			for _, k := range tt.missing {
				if md.Has(k) {
					t.Errorf("front matter has %q: %v", k, md.Keys())
				}
			}
		})
	}
}

func TestIdentityMapping(t *testing.T) {
	models := mapping.DefaultModels()
	svc := NewService(zerolog.Nop(), testOptions(), models)
	for _, mt := range media.AllTypes() {
		r, _ := media.Default(mt)
		if got, want := svc.FrontMatter(r).Keys(), media.ToMetaData(r).Keys(); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: keys = %v, want %v", mt, got, want)
		}
	}
}

func TestServiceSnapshot(t *testing.T) {
	model, _ := mapping.NewDefaultModel(media.TypeGame)
	opts := testOptions()
	svc := NewService(zerolog.Nop(), opts, mapping.Models{model})

	_ = model.Set("title", mapping.ActionRemove, "")
	opts.Templates[media.TypeGame] = "changed"

	g := &media.Game{Base: media.Base{Title: "Elden Ring"}}
	res, err := svc.Export(g)
	if err != nil {
		t.Fatal(err)
	}
	if !res.FrontMatter.Has("title") {
		t.Error("edit of the caller's model leaked into the engine")
	}
	if res.FileName != "Elden Ring" {
		t.Errorf("FileName = %q, want default template", res.FileName)
	}
}

func TestExport(t *testing.T) {
	svc := NewService(zerolog.Nop(), testOptions(), nil)

	tests := []struct {
		name   string
		record media.Record
		want   string
	}{
		{
			name:   "enum template",
			record: &media.MusicRelease{Base: media.Base{Title: "X", Year: "2020"}, Artists: []string{"A", "B"}},
			want:   "X (by A - 2020)X (by B - 2020)",
		},
		{
			name:   "default template",
			record: &media.Wiki{Base: media.Base{Title: "Go (programming language)"}},
			want:   "Go (programming language)",
		},
		{
			name:   "sanitized",
			record: &media.Book{Base: media.Base{Title: "1984"}, Author: "George Orwell / Eric Blair"},
			want:   "1984: George Orwell - Eric Blair",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Export(tt.record)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if res.FileName != tt.want {
				t.Errorf("FileName = %q, want %q", res.FileName, tt.want)
			}
		})
	}

	if _, err := svc.Export(nil); err == nil {
		t.Error("Export(nil) must fail")
	}
}

func TestExportConcurrent(t *testing.T) {
	svc := NewService(zerolog.Nop(), testOptions(), mapping.DefaultModels())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := &media.MusicRelease{Base: media.Base{Title: "X"}, Artists: []string{"A"}}
			if _, err := svc.Export(r); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestRenderNote(t *testing.T) {
	md := media.NewMetadata()
	md.Set("type", "book")
	md.Set("title", "Dune")
	md.Set("genres", []string{"Sci-Fi"})

	out, err := RenderNote(md, "# Notes\n")
	if err != nil {
		t.Fatalf("RenderNote() error = %v", err)
	}
	want := "---\ntype: book\ntitle: Dune\ngenres:\n  - Sci-Fi\n---\n# Notes\n"
	if string(out) != want {
		t.Errorf("RenderNote() =\n%s\nwant\n%s", out, want)
	}

	empty, err := RenderFrontMatter(media.NewMetadata())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(empty), "---\n---\n") {
		t.Errorf("empty front matter = %q", empty)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &domain.Config{
		FileNameEscaping:  domain.EscapingWindows,
		MaxFileNameLength: 64,
		FileNameTemplates: map[media.MediaType]string{
			media.TypeMovie: "{{ title }} [{{ year }}]",
			media.TypeGame:  "  ",
		},
	}

	opts := OptionsFromConfig(cfg)
	if opts.Escaping != domain.EscapingWindows || opts.MaxFileNameLength != 64 {
		t.Errorf("opts = %+v", opts)
	}
	tests := map[media.MediaType]string{
		media.TypeMovie: "{{ title }} [{{ year }}]",
		media.TypeGame:  domain.DefaultFileNameTemplate,
		media.TypeWiki:  domain.DefaultFileNameTemplate,
	}
	for mt, want := range tests {
		if got := opts.Templates[mt]; got != want {
			t.Errorf("Templates[%s] = %q, want %q", mt, got, want)
		}
	}
	if len(opts.Templates) != len(media.AllTypes()) {
		t.Errorf("got %d templates, want one per media type", len(opts.Templates))
	}
}
