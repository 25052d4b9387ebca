package format

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/media"
	"github.com/varoOP/mediadb/internal/repository"
)

func TestFormatMappings(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()
	repo := repository.NewFileRepository(log)
	path := filepath.Join(t.TempDir(), "mappings.yaml")

	models, err := LoadMappings(ctx, log, repo, path)
	if err != nil {
		t.Fatalf("LoadMappings(missing) error = %v", err)
	}
	if len(models) != len(media.AllTypes()) {
		t.Fatalf("got %d default models", len(models))
	}

	stored := mapping.Models{{Type: media.TypeBook, Properties: []mapping.PropertyMapping{
		{Key: "id", Mapping: mapping.ActionRemove},
		{Key: "author", Mapping: mapping.ActionRemap, NewKey: "writer"},
	}}}
	if err := repo.StoreModels(ctx, path, stored); err != nil {
		t.Fatal(err)
	}

	if _, err := FormatMappings(ctx, log, repo, path); err != nil {
		t.Fatalf("FormatMappings() error = %v", err)
	}

	got, err := repo.GetModels(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(media.AllTypes()) {
		t.Fatalf("formatted file has %d models", len(got))
	}
	book, _ := got.ForType(media.TypeBook)
	for _, p := range book.Properties {
		switch p.Key {
		case "id":
			if p.Mapping != mapping.ActionDefault || !p.Locked {
				t.Errorf("id = %+v", p)
			}
		case "author":
			if p.Mapping != mapping.ActionRemap || p.NewKey != "writer" {
				t.Errorf("author = %+v", p)
			}
		}
	}
	def, _ := mapping.NewDefaultModel(media.TypeBook)
	if len(book.Properties) != len(def.Properties) {
		t.Errorf("book model has %d entries, want %d", len(book.Properties), len(def.Properties))
	}
}
