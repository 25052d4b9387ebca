package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/media"
)

func ptr[T any](v T) *T { return &v }

func TestMerge(t *testing.T) {
	d := Defaults()
	o := domain.Overrides{
		UseDefaultFrontMatter: ptr(false),
		FileNameEscaping:      ptr(" Windows "),
		MaxFileNameLength:     ptr(64),
		FileNameTemplates:     map[string]string{"comicmanga": "{{ title }} vol. {{ volumes }}"},
		OutputDir:             ptr("/srv/media"),
	}

	cfg, err := Merge(d, o)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if cfg.UseDefaultFrontMatter {
		t.Error("UseDefaultFrontMatter override ignored")
	}
	if cfg.FileNameEscaping != domain.EscapingWindows {
		t.Errorf("FileNameEscaping = %q", cfg.FileNameEscaping)
	}
	if cfg.MaxFileNameLength != 64 {
		t.Errorf("MaxFileNameLength = %d", cfg.MaxFileNameLength)
	}
	if got := cfg.FileNameTemplates[media.TypeComicManga]; got != "{{ title }} vol. {{ volumes }}" {
		t.Errorf("comicManga template = %q", got)
	}
	if got := cfg.FileNameTemplates[media.TypeMovie]; got != d.FileNameTemplates[media.TypeMovie] {
		t.Errorf("movie template = %q, want default", got)
	}
	if want := filepath.Join("/srv/media", "mappings.yaml"); cfg.MappingFile != want {
		t.Errorf("MappingFile = %q, want %q", cfg.MappingFile, want)
	}
	if want := filepath.Join("/srv/media", "mediadb.db"); cfg.DatabasePath != want {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, want)
	}

	cfg.FileNameTemplates[media.TypeWiki] = "changed"
	if d.FileNameTemplates[media.TypeWiki] == "changed" {
		t.Error("Merge shares the defaults' template map")
	}
}

func TestMergeUnknownTemplateKey(t *testing.T) {
	_, err := Merge(Defaults(), domain.Overrides{FileNameTemplates: map[string]string{"podcast": "x"}})
	if !errors.Is(err, media.ErrUnsupportedType) {
		t.Fatalf("Merge() error = %v, want ErrUnsupportedType", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *domain.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *domain.Config) {}},
		{name: "posix", mutate: func(c *domain.Config) { c.FileNameEscaping = domain.EscapingPosix }},
		{name: "bad escaping", mutate: func(c *domain.Config) { c.FileNameEscaping = "dos" }, wantErr: true},
		{name: "too short", mutate: func(c *domain.Config) { c.MaxFileNameLength = 8 }, wantErr: true},
		{name: "too long", mutate: func(c *domain.Config) { c.MaxFileNameLength = 1024 }, wantErr: true},
		{name: "lower bound", mutate: func(c *domain.Config) { c.MaxFileNameLength = MinFileNameLength }},
		{name: "no output dir", mutate: func(c *domain.Config) { c.OutputDir = " " }, wantErr: true},
		{name: "bad template key", mutate: func(c *domain.Config) { c.FileNameTemplates["podcast"] = "x" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Merge(Defaults(), domain.Overrides{})
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(&cfg)
			if err := Validate(&cfg); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTemplateFallback(t *testing.T) {
	cfg := Defaults()
	delete(cfg.FileNameTemplates, media.TypeGame)
	if got := cfg.Template(media.TypeGame); got != domain.DefaultFileNameTemplate {
		t.Errorf("Template(game) = %q", got)
	}
	if got := cfg.Template(media.TypeMusicRelease); got != "{{ title }} (by {{ ENUM:artists }} - {{ year }})" {
		t.Errorf("Template(musicRelease) = %q", got)
	}
}
