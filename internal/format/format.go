package format

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/mapping"
)

// LoadMappings reads the mapping file at path and layers it over the default
// models. A missing file yields the defaults.
func LoadMappings(ctx context.Context, log zerolog.Logger, repo domain.MappingRepository, path string) (mapping.Models, error) {
	defaults := mapping.DefaultModels()

	stored, err := repo.GetModels(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", path).Msg("No mapping file, using defaults")
			return defaults, nil
		}
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}

	models, repairs := defaults.Merge(stored)
	for _, r := range repairs {
		if r.Dropped {
			log.Warn().
				Str("type", string(r.Type)).
				Msg("Dropped stored mapping model of unknown media type")
			continue
		}
		log.Warn().
			Str("type", string(r.Type)).
			Bool("sanitized", r.Sanitized).
			Strs("reset", r.Reset).
			Msg("Repaired stored mapping model")
	}
	return models, nil
}

// FormatMappings rewrites the mapping file at path in canonical form: every
// media type present, every exported key listed and invalid rules repaired.
func FormatMappings(ctx context.Context, log zerolog.Logger, repo domain.MappingRepository, path string) (mapping.Models, error) {
	models, err := LoadMappings(ctx, log, repo, path)
	if err != nil {
		return nil, err
	}

	if err := repo.StoreModels(ctx, path, models); err != nil {
		return nil, fmt.Errorf("failed to store mappings: %w", err)
	}

	log.Info().Str("path", path).Int("models", len(models)).Msg("Formatted mapping file")
	return models, nil
}
