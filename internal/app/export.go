package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/export"
	"github.com/varoOP/mediadb/internal/media"
	"github.com/varoOP/mediadb/internal/migrate"
)

// Export builds records from the vendor partials at partialsPath, stores
// them and writes one note per record. Bodies of existing notes are kept.
func (a *App) Export(ctx context.Context, partialsPath string) (domain.Statistics, error) {
	return a.run(ctx, "export", func(stats *domain.Statistics) error {
		partials, err := a.partialRepo.GetPartials(ctx, partialsPath)
		if err != nil {
			return fmt.Errorf("failed to read partials: %w", err)
		}
		stats.Total = len(partials)

		records := make([]media.Record, 0, len(partials))
		for i, p := range partials {
			r, err := migrate.FromPartial(p)
			if err != nil {
				if errors.Is(err, media.ErrUnsupportedType) {
					stats.Unsupported++
					a.log.Warn().Int("index", i).Err(err).Msg("Skipping partial")
					continue
				}
				return fmt.Errorf("failed to build record %d: %w", i, err)
			}
			records = append(records, r)
		}

		dupeCount, deduped, err := a.dedupeService.CheckDupes(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to check dupes: %w", err)
		}
		stats.DupeCount = dupeCount

		exporter, err := a.exporter(ctx)
		if err != nil {
			return err
		}

		if err := a.writeNotes(ctx, exporter, deduped, stats); err != nil {
			return err
		}

		return a.storeRecords(ctx, deduped, stats)
	})
}

func (a *App) writeNotes(ctx context.Context, exporter export.Service, records []media.Record, stats *domain.Statistics) error {
	used := make(map[string]int)
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := exporter.Export(r)
		if err != nil {
			stats.Skipped++
			a.log.Warn().Str("summary", r.Summary()).Err(err).Msg("Skipping record")
			continue
		}

		path := a.notePath(used, res.FileName)
		body := ""
		if existing, err := a.noteRepo.GetNote(ctx, path); err == nil {
			body = existing.Body
		} else if !errors.Is(err, os.ErrNotExist) {
			a.log.Warn().Str("path", path).Err(err).Msg("Replacing unreadable note")
		}

		if err := a.noteRepo.StoreNote(ctx, path, &domain.Note{FrontMatter: res.FrontMatter, Body: body}); err != nil {
			return fmt.Errorf("failed to write note for %s: %w", r.Summary(), err)
		}
		stats.Exported++
	}
	return nil
}

// storeRecords upserts every record that carries an identity.
func (a *App) storeRecords(ctx context.Context, records []media.Record, stats *domain.Statistics) error {
	storable := make([]media.Record, 0, len(records))
	for _, r := range records {
		if b := r.Common(); b.DataSource == "" || b.ID == "" {
			a.log.Debug().Str("summary", r.Summary()).Msg("Not storing record without identity")
			continue
		}
		storable = append(storable, r)
	}
	if len(storable) == 0 {
		return nil
	}

	db, repo, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repo.UpsertMany(ctx, storable)
	if err != nil {
		return fmt.Errorf("failed to store records: %w", err)
	}
	stats.Stored = n
	return nil
}
