package notification

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/domain"
)

// FileService writes the outcome of the last batch as a JSON report
type FileService struct {
	log  zerolog.Logger
	path string
	now  func() time.Time
}

// NewFileService creates a report writer for path
func NewFileService(log zerolog.Logger, path string) *FileService {
	return &FileService{
		log:  log.With().Str("module", "notification").Str("type", "file").Logger(),
		path: path,
		now:  time.Now,
	}
}

// SendSuccess writes a success report with statistics
func (s *FileService) SendSuccess(ctx context.Context, stats domain.Statistics) error {
	return s.write(report{
		Status:      "success",
		Timestamp:   s.now().Format(time.RFC3339),
		Command:     stats.Command,
		Total:       stats.Total,
		Exported:    stats.Exported,
		Updated:     stats.Updated,
		Stored:      stats.Stored,
		Skipped:     stats.Skipped,
		Unsupported: stats.Unsupported,
		Duplicates:  stats.DupeCount,
	})
}

// SendError writes a failure report with the error text
func (s *FileService) SendError(ctx context.Context, err error) error {
	return s.write(report{
		Status:    "error",
		Timestamp: s.now().Format(time.RFC3339),
		Error:     err.Error(),
	})
}

func (s *FileService) write(r report) error {
	b, err := json.MarshalIndent(r, "", "   ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}

	if err := os.WriteFile(s.path, b, 0644); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	s.log.Debug().Str("path", s.path).Msg("Report written")
	return nil
}

// report is the JSON document written after each batch
type report struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Command     string `json:"command,omitempty"`
	Total       int    `json:"total"`
	Exported    int    `json:"exported"`
	Updated     int    `json:"updated"`
	Stored      int    `json:"stored"`
	Skipped     int    `json:"skipped"`
	Unsupported int    `json:"unsupported"`
	Duplicates  int    `json:"duplicates"`
	Error       string `json:"error,omitempty"`
}
