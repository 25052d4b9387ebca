package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/export"
	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/media"
)

const noteExt = ".md"

// FileRepository implements the partial, mapping and note repositories using file storage
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

// Ensure FileRepository implements all file-backed interfaces
var _ domain.PartialRepository = (*FileRepository)(nil)
var _ domain.MappingRepository = (*FileRepository)(nil)
var _ domain.NoteRepository = (*FileRepository)(nil)

func readFile(path string) ([]byte, error) {
	// Check if path exists and is a file (not a directory)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return body, nil
}

func writeFile(path string, b []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}
	return nil
}

// GetPartials reads a JSON array of vendor-adapter objects. Elements that are
// not objects are skipped.
func (r *FileRepository) GetPartials(ctx context.Context, path string) ([]map[string]any, error) {
	body, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json from %s: %w", path, err)
	}

	partials := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		var m map[string]any
		if err := json.Unmarshal(item, &m); err != nil || m == nil {
			r.log.Warn().Str("path", path).Int("index", i).Msg("skipping non-object entry")
			continue
		}
		partials = append(partials, m)
	}

	r.log.Debug().Str("path", path).Int("count", len(partials)).Msg("read partial records")
	return partials, nil
}

// GetModels reads the stored mapping models.
func (r *FileRepository) GetModels(ctx context.Context, path string) (mapping.Models, error) {
	body, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var models mapping.Models
	if err := yaml.Unmarshal(body, &models); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return models, nil
}

// StoreModels saves mapping models, one blank line between media types.
func (r *FileRepository) StoreModels(ctx context.Context, path string, models mapping.Models) error {
	b, err := yaml.Marshal(models)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}

	lines := strings.Split(string(b), "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "- type:") {
			lines[i-1] += "\n"
		}
	}

	if err := writeFile(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return err
	}

	r.log.Debug().Str("path", path).Int("count", len(models)).Msg("stored mapping models")
	return nil
}

// ListNotes returns the markdown files below dir in lexical order.
func (r *FileRepository) ListNotes(ctx context.Context, dir string) ([]string, error) {
	var notes []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), noteExt) {
			notes = append(notes, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes in %s: %w", dir, err)
	}
	sort.Strings(notes)
	return notes, nil
}

// GetNote reads a note and splits off its front matter.
func (r *FileRepository) GetNote(ctx context.Context, path string) (*domain.Note, error) {
	body, err := readFile(path)
	if err != nil {
		return nil, err
	}

	note, err := ParseNote(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse note %s: %w", path, err)
	}
	return note, nil
}

// StoreNote writes a note, creating its directory when needed.
func (r *FileRepository) StoreNote(ctx context.Context, path string, note *domain.Note) error {
	b, err := export.RenderNote(note.FrontMatter, note.Body)
	if err != nil {
		return fmt.Errorf("failed to render note: %w", err)
	}

	if err := writeFile(path, b); err != nil {
		return err
	}

	r.log.Debug().Str("path", path).Int("keys", note.FrontMatter.Len()).Msg("stored note")
	return nil
}

// ParseNote splits a markdown document into front matter and body. A
// document without a leading front matter block is all body.
func ParseNote(b []byte) (*domain.Note, error) {
	b = bytes.TrimPrefix(b, []byte("\ufeff"))
	text := strings.ReplaceAll(string(b), "\r\n", "\n")

	note := &domain.Note{FrontMatter: media.NewMetadata(), Body: text}
	if !strings.HasPrefix(text, "---\n") {
		return note, nil
	}

	rest := text[len("---\n"):]
	var header string
	switch {
	case strings.HasPrefix(rest, "---\n"):
		note.Body = rest[len("---\n"):]
		return note, nil
	case rest == "---":
		note.Body = ""
		return note, nil
	}

	end := strings.Index(rest, "\n---\n")
	switch {
	case end >= 0:
		header = rest[:end+1]
		note.Body = rest[end+len("\n---\n"):]
	case strings.HasSuffix(rest, "\n---"):
		header = rest[:len(rest)-len("---")]
		note.Body = ""
	default:
		// unterminated block, treat the whole document as body
		return note, nil
	}

	if strings.TrimSpace(header) == "" {
		return note, nil
	}
	if err := yaml.Unmarshal([]byte(header), note.FrontMatter); err != nil {
		return nil, err
	}
	return note, nil
}
