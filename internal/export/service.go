package export

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/mapping"
	"github.com/varoOP/mediadb/internal/media"
)

const frontMatterDelimiter = "---"

// Result is the exported form of one record.
type Result struct {
	FrontMatter *media.Metadata
	FileName    string
}

type Service interface {
	FrontMatter(r media.Record) *media.Metadata
	FileName(r media.Record, template string) string
	Export(r media.Record) (*Result, error)
}

// Options is the part of the configuration the engine reads.
type Options struct {
	UseDefaultFrontMatter bool
	Escaping              domain.Escaping
	MaxFileNameLength     int
	Templates             map[media.MediaType]string
}

// OptionsFromConfig copies the export settings out of cfg, with the
// template of every media type resolved.
func OptionsFromConfig(cfg *domain.Config) Options {
	templates := make(map[media.MediaType]string, len(media.AllTypes()))
	for _, t := range media.AllTypes() {
		templates[t] = cfg.Template(t)
	}
	return Options{
		UseDefaultFrontMatter: cfg.UseDefaultFrontMatter,
		Escaping:              cfg.FileNameEscaping,
		MaxFileNameLength:     cfg.MaxFileNameLength,
		Templates:             templates,
	}
}

type service struct {
	log    zerolog.Logger
	opts   Options
	models mapping.Models
}

// NewService returns an engine over a private snapshot of opts and models.
// It is safe for concurrent use.
func NewService(log zerolog.Logger, opts Options, models mapping.Models) Service {
	templates := make(map[media.MediaType]string, len(opts.Templates))
	for k, v := range opts.Templates {
		templates[k] = v
	}
	opts.Templates = templates
	opts.Escaping = ResolveEscaping(opts.Escaping)

	return &service{
		log:    log.With().Str("module", "export").Logger(),
		opts:   opts,
		models: models.Copy(),
	}
}

// FrontMatter returns the exported keys of r after its media type's mapping
// model is applied.
func (s *service) FrontMatter(r media.Record) *media.Metadata {
	var md *media.Metadata
	if s.opts.UseDefaultFrontMatter {
		md = media.ToMetaData(r)
	} else {
		md = media.WithoutUserData(r)
	}

	model, ok := s.models.ForType(r.MediaType())
	if !ok {
		return md
	}
	return model.Apply(md)
}

func (s *service) FileName(r media.Record, template string) string {
	return SanitizeFileName(Render(template, r), s.opts.Escaping, s.opts.MaxFileNameLength)
}

func (s *service) Export(r media.Record) (*Result, error) {
	if r == nil {
		return nil, errors.New("nil record")
	}

	template := domain.TemplateFor(s.opts.Templates, r.MediaType())

	res := &Result{
		FrontMatter: s.FrontMatter(r),
		FileName:    s.FileName(r, template),
	}
	s.log.Trace().
		Str("type", string(r.MediaType())).
		Str("summary", r.Summary()).
		Str("file", res.FileName).
		Msg("Exported record")
	return res, nil
}

// RenderFrontMatter renders md as a YAML front matter block, keys in order.
func RenderFrontMatter(md *media.Metadata) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter + "\n")
	if md.Len() > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(md); err != nil {
			return nil, errors.Wrap(err, "failed to encode front matter")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode front matter")
		}
	}
	buf.WriteString(frontMatterDelimiter + "\n")
	return buf.Bytes(), nil
}

// RenderNote renders a complete note: front matter followed by body.
func RenderNote(md *media.Metadata, body string) ([]byte, error) {
	fm, err := RenderFrontMatter(md)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return fm, nil
	}
	return append(fm, body...), nil
}
