package domain

import (
	"context"
	"time"

	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/media"
)

// RecordRepository defines the interface for the record store
type RecordRepository interface {
	Upsert(ctx context.Context, r media.Record) (*StoredRecord, error)
	UpsertMany(ctx context.Context, records []media.Record) (int, error)
	Get(ctx context.Context, dataSource, id string) (*StoredRecord, error)
	List(ctx context.Context, t media.MediaType) ([]*StoredRecord, error)
	Count(ctx context.Context) (int, error)
}

// StoredRecord is a record as kept by the store. Data holds the persisted
// nested shape, which may predate the current record model.
type StoredRecord struct {
	UID        string
	Type       string
	DataSource string
	ID         string
	Title      string
	Year       string
	Data       map[string]any
	UpdatedAt  time.Time
}

// PartialRepository reads vendor-adapter output
type PartialRepository interface {
	GetPartials(ctx context.Context, path string) ([]map[string]any, error)
}

// MappingRepository defines the interface for mapping model storage
type MappingRepository interface {
	GetModels(ctx context.Context, path string) (mapping.Models, error)
	StoreModels(ctx context.Context, path string, models mapping.Models) error
}

// NoteRepository defines the interface for markdown note storage
type NoteRepository interface {
	ListNotes(ctx context.Context, dir string) ([]string, error)
	GetNote(ctx context.Context, path string) (*Note, error)
	StoreNote(ctx context.Context, path string, note *Note) error
}

// Note is a markdown document with YAML front matter.
type Note struct {
	FrontMatter *media.Metadata
	Body        string
}
