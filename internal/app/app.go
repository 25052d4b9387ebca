package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/config"
	"github.com/varoOP/mediadb/internal/database"
	"github.com/varoOP/mediadb/internal/dedupe"
	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/export"
	"github.com/varoOP/mediadb/internal/format"
	"github.com/varoOP/mediadb/internal/logger"
	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/notification"
	"github.com/varoOP/mediadb/internal/repository"
)

const reportFile = "last-run.json"

// App represents the main application with all dependencies initialized
type App struct {
	log           zerolog.Logger
	config        *domain.Config
	paths         *domain.Paths
	partialRepo   domain.PartialRepository
	mappingRepo   domain.MappingRepository
	noteRepo      domain.NoteRepository
	dedupeService dedupe.Service
	reportService domain.ReportService
}

// NewApp creates a new application instance with all dependencies initialized
func NewApp() (*App, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewLoggerWithLevel(level)

	return New(log, cfg), nil
}

// New wires an App from an already loaded configuration.
func New(log zerolog.Logger, cfg *domain.Config) *App {
	paths := domain.NewPaths(cfg.OutputDir)

	// Initialize repositories
	fileRepo := repository.NewFileRepository(log)

	return &App{
		log:           log,
		config:        cfg,
		paths:         paths,
		partialRepo:   fileRepo,
		mappingRepo:   fileRepo,
		noteRepo:      fileRepo,
		dedupeService: dedupe.NewService(log),
		reportService: notification.NewService(log, filepath.Join(paths.RootDir, reportFile)),
	}
}

// Config returns the configuration the app runs with.
func (a *App) Config() *domain.Config {
	return a.config
}

// run wraps a batch so that its outcome is always reported.
func (a *App) run(ctx context.Context, command string, fn func(stats *domain.Statistics) error) (stats domain.Statistics, err error) {
	stats.Command = command

	// Send error report if the batch fails
	defer func() {
		if err != nil {
			if reportErr := a.reportService.SendError(ctx, err); reportErr != nil {
				a.log.Warn().Err(reportErr).Msg("Failed to send error report")
			}
		}
	}()

	if err := fn(&stats); err != nil {
		return stats, err
	}

	if reportErr := a.reportService.SendSuccess(ctx, stats); reportErr != nil {
		a.log.Warn().Err(reportErr).Msg("Failed to send success report")
	}
	return stats, nil
}

func (a *App) openStore() (*database.DB, *database.RecordRepo, error) {
	db, err := database.NewDB(a.config.DatabasePath, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, database.NewRecordRepo(a.log, db), nil
}

// exporter loads the mapping models and builds an export service over them.
func (a *App) exporter(ctx context.Context) (export.Service, error) {
	models, err := format.LoadMappings(ctx, a.log, a.mappingRepo, a.config.MappingFile)
	if err != nil {
		return nil, err
	}
	return export.NewService(a.log, export.OptionsFromConfig(a.config), models), nil
}

// GenerateMappings writes the mapping file: defaults for a new file, the
// repaired and extended models for an existing one.
func (a *App) GenerateMappings(ctx context.Context) (mapping.Models, error) {
	models, err := format.FormatMappings(ctx, a.log, a.mappingRepo, a.config.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mappings: %w", err)
	}
	return models, nil
}

// notePath picks a note path for name that is not yet used in this batch.
// Collisions are compared case-insensitively under windows rules.
func (a *App) notePath(used map[string]int, name string) string {
	key := name
	if export.ResolveEscaping(a.config.FileNameEscaping) == domain.EscapingWindows {
		key = strings.ToLower(name)
	}
	used[key]++
	if n := used[key]; n > 1 {
		name = fmt.Sprintf("%s (%d)", name, n)
	}
	return filepath.Join(a.paths.NotesPath, name+".md")
}
