package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/domain"
)

// Service is a composite report service that publishes batch outcomes
// through every configured channel
type Service struct {
	log  zerolog.Logger
	file *FileService
}

// NewService creates a new report service. Outcomes are always logged and
// also written to reportPath when it is set.
func NewService(log zerolog.Logger, reportPath string) domain.ReportService {
	var file *FileService
	if reportPath != "" {
		file = NewFileService(log, reportPath)
	}

	return &Service{
		log:  log.With().Str("module", "notification").Logger(),
		file: file,
	}
}

// SendSuccess reports statistics through all configured channels
func (s *Service) SendSuccess(ctx context.Context, stats domain.Statistics) error {
	s.log.Info().
		Str("command", stats.Command).
		Int("total", stats.Total).
		Int("exported", stats.Exported).
		Int("updated", stats.Updated).
		Int("stored", stats.Stored).
		Int("skipped", stats.Skipped).
		Int("unsupported", stats.Unsupported).
		Int("duplicates", stats.DupeCount).
		Msg("Batch completed")

	if s.file != nil {
		if err := s.file.SendSuccess(ctx, stats); err != nil {
			return err
		}
	}
	return nil
}

// SendError reports a failed batch through all configured channels
func (s *Service) SendError(ctx context.Context, err error) error {
	s.log.Error().Err(err).Msg("Batch failed")

	if s.file != nil {
		if err := s.file.SendError(ctx, err); err != nil {
			return err
		}
	}
	return nil
}
