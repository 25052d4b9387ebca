package domain

import (
	"strings"

	"github.com/varoOP/mediadb/internal/media"
)

// Escaping selects the file-name rules applied to rendered names.
type Escaping string

const (
	// EscapingAuto - windows rules on windows, posix rules everywhere else
	EscapingAuto Escaping = "auto"
	// EscapingPosix - only path separators, NUL and control characters are replaced
	EscapingPosix Escaping = "posix"
	// EscapingWindows - also replaces <>:"\|?*, trailing dots and reserved device names
	EscapingWindows Escaping = "windows"
)

// Config is the merged, validated configuration the application runs with.
type Config struct {
	LogLevel              string                     `mapstructure:"log_level"`
	UseDefaultFrontMatter bool                       `mapstructure:"use_default_front_matter"`
	FileNameEscaping      Escaping                   `mapstructure:"file_name_escaping"`
	MaxFileNameLength     int                        `mapstructure:"max_file_name_length"`
	FileNameTemplates     map[media.MediaType]string `mapstructure:"file_name_templates"`
	OutputDir             string                     `mapstructure:"output_dir"`
	MappingFile           string                     `mapstructure:"mapping_file"`
	DatabasePath          string                     `mapstructure:"database_path"`
}

// Template returns the file-name template configured for t.
func (c *Config) Template(t media.MediaType) string {
	return TemplateFor(c.FileNameTemplates, t)
}

// TemplateFor looks up the template of t, falling back to
// DefaultFileNameTemplate when none or a blank one is set.
func TemplateFor(templates map[media.MediaType]string, t media.MediaType) string {
	if tmpl, ok := templates[t]; ok && strings.TrimSpace(tmpl) != "" {
		return tmpl
	}
	return DefaultFileNameTemplate
}

// DefaultFileNameTemplate is used for media types without a configured template.
const DefaultFileNameTemplate = "{{ title }}"

// Overrides holds user-supplied settings. Nil fields keep the default.
type Overrides struct {
	LogLevel              *string           `mapstructure:"log_level"`
	UseDefaultFrontMatter *bool             `mapstructure:"use_default_front_matter"`
	FileNameEscaping      *string           `mapstructure:"file_name_escaping"`
	MaxFileNameLength     *int              `mapstructure:"max_file_name_length"`
	FileNameTemplates     map[string]string `mapstructure:"file_name_templates"`
	OutputDir             *string           `mapstructure:"output_dir"`
	MappingFile           *string           `mapstructure:"mapping_file"`
	DatabasePath          *string           `mapstructure:"database_path"`
}
