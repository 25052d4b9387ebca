package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/varoOP/mediadb/internal/database"
	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/export"
	"github.com/varoOP/mediadb/internal/format"
	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/media"
	"github.com/varoOP/mediadb/internal/migrate"
)

// Update re-renders the front matter of existing notes under notesDir with
// the current record model and mapping. Note bodies and keys the record does
// not know about are kept. User fields missing from a note are taken from
// the stored record, so they survive notes exported without them.
func (a *App) Update(ctx context.Context, notesDir string) (domain.Statistics, error) {
	if notesDir == "" {
		notesDir = a.paths.NotesPath
	}

	return a.run(ctx, "update", func(stats *domain.Statistics) error {
		paths, err := a.noteRepo.ListNotes(ctx, notesDir)
		if err != nil {
			return err
		}
		stats.Total = len(paths)

		models, err := format.LoadMappings(ctx, a.log, a.mappingRepo, a.config.MappingFile)
		if err != nil {
			return err
		}
		exporter := export.NewService(a.log, export.OptionsFromConfig(a.config), models)

		records, err := a.updateNotes(ctx, paths, models, exporter, stats)
		if err != nil {
			return err
		}
		return a.storeRecords(ctx, records, stats)
	})
}

func (a *App) updateNotes(ctx context.Context, paths []string, models mapping.Models, exporter export.Service, stats *domain.Statistics) ([]media.Record, error) {
	db, repo, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var records []media.Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		note, err := a.noteRepo.GetNote(ctx, path)
		if err != nil {
			stats.Skipped++
			a.log.Warn().Str("path", path).Err(err).Msg("Skipping unreadable note")
			continue
		}

		r, err := a.readRecord(ctx, note, models, repo)
		if err != nil {
			switch {
			case errors.Is(err, media.ErrUnsupportedType):
				stats.Unsupported++
			case errors.Is(err, errNoType):
				stats.Skipped++
			default:
				return nil, fmt.Errorf("failed to read note %s: %w", path, err)
			}
			a.log.Debug().Str("path", path).Err(err).Msg("Skipping note")
			continue
		}

		fm := exporter.FrontMatter(r)
		a.keepExtraKeys(fm, note.FrontMatter, exporter, r.MediaType())

		if err := a.noteRepo.StoreNote(ctx, path, &domain.Note{FrontMatter: fm, Body: note.Body}); err != nil {
			return nil, fmt.Errorf("failed to update note %s: %w", path, err)
		}
		stats.Updated++
		records = append(records, r)
	}
	return records, nil
}

var errNoType = errors.New("note has no type")

// readRecord turns the front matter of a note back into a record.
func (a *App) readRecord(ctx context.Context, note *domain.Note, models mapping.Models, repo domain.RecordRepository) (media.Record, error) {
	raw, ok := note.FrontMatter.Get(media.TypeKey)
	if !ok {
		return nil, errNoType
	}
	s, _ := raw.(string)
	t, err := media.ParseMediaType(s)
	if err != nil {
		return nil, err
	}

	fm := note.FrontMatter
	if model, ok := models.ForType(t); ok {
		fm = model.Invert(fm)
	}

	ref, err := media.Default(t)
	if err != nil {
		return nil, err
	}
	r := migrate.FromFrontMatter(ref, fm.Map())
	if err := a.restoreUserData(ctx, r, fm, repo); err != nil {
		return nil, err
	}
	return r, nil
}

// restoreUserData fills the user fields absent from fm with the values of
// the record stored under the same (dataSource, id).
func (a *App) restoreUserData(ctx context.Context, r media.Record, fm *media.Metadata, repo domain.RecordRepository) error {
	var missing []media.Field
	for _, f := range media.UserDataFields(r) {
		if !fm.Has(f.Name) {
			missing = append(missing, f)
		}
	}
	b := r.Common()
	if len(missing) == 0 || b.DataSource == "" || b.ID == "" {
		return nil
	}

	s, err := repo.Get(ctx, b.DataSource, b.ID)
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get stored record: %w", err)
	}
	if s.Type != string(r.MediaType()) {
		return nil
	}

	ref, err := media.Default(r.MediaType())
	if err != nil {
		return err
	}
	stored := make(map[string]any)
	for _, f := range media.UserDataFields(migrate.Reconcile(ref, s.Data)) {
		stored[f.Name] = f.Value()
	}
	for _, f := range missing {
		if v, ok := stored[f.Name]; ok {
			if err := f.Set(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// keepExtraKeys appends the keys of the original front matter that the
// exporter never produces for the record's type, such as user-added
// properties.
func (a *App) keepExtraKeys(fm, original *media.Metadata, exporter export.Service, t media.MediaType) {
	ref, err := media.Default(t)
	if err != nil {
		return
	}

	base := media.WithoutUserData(ref)
	if a.config.UseDefaultFrontMatter {
		base = media.ToMetaData(ref)
	}
	known := make(map[string]struct{}, base.Len())
	for _, k := range base.Keys() {
		known[k] = struct{}{}
	}
	for _, k := range exporter.FrontMatter(ref).Keys() {
		known[k] = struct{}{}
	}

	for _, k := range original.Keys() {
		if _, ok := known[k]; ok || fm.Has(k) {
			continue
		}
		v, _ := original.Get(k)
		fm.Set(k, v)
	}
}

// Rebuild migrates every stored record to the current record model, stores
// the result and rewrites its note.
func (a *App) Rebuild(ctx context.Context) (domain.Statistics, error) {
	return a.run(ctx, "rebuild", func(stats *domain.Statistics) error {
		db, repo, err := a.openStore()
		if err != nil {
			return err
		}
		stored, err := repo.List(ctx, "")
		db.Close()
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		stats.Total = len(stored)

		records := make([]media.Record, 0, len(stored))
		for _, s := range stored {
			t, err := media.ParseMediaType(s.Type)
			if err != nil {
				stats.Unsupported++
				a.log.Warn().Str("uid", s.UID).Err(err).Msg("Skipping stored record")
				continue
			}
			ref, err := media.Default(t)
			if err != nil {
				return err
			}
			records = append(records, migrate.Reconcile(ref, s.Data))
		}

		exporter, err := a.exporter(ctx)
		if err != nil {
			return err
		}
		if err := a.writeNotes(ctx, exporter, records, stats); err != nil {
			return err
		}
		return a.storeRecords(ctx, records, stats)
	})
}
