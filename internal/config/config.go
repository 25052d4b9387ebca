package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/varoOP/mediadb/internal/domain"
	"github.com/varoOP/mediadb/internal/media"
)

const (
	MinFileNameLength = 16
	MaxFileNameLength = 255
)

// Defaults returns the built-in configuration every override is layered on.
func Defaults() domain.Config {
	paths := domain.NewPaths(".")
	return domain.Config{
		LogLevel:              "info",
		UseDefaultFrontMatter: true,
		FileNameEscaping:      domain.EscapingAuto,
		MaxFileNameLength:     MaxFileNameLength,
		FileNameTemplates: map[media.MediaType]string{
			media.TypeMovie:        "{{ title }} ({{ year }})",
			media.TypeSeries:       "{{ title }} ({{ year }})",
			media.TypeGame:         "{{ title }} ({{ year }})",
			media.TypeBook:         "{{ title }} - {{ author }} ({{ year }})",
			media.TypeComicManga:   "{{ title }} ({{ year }})",
			media.TypeMusicRelease: "{{ title }} (by {{ ENUM:artists }} - {{ year }})",
			media.TypeBoardGame:    "{{ title }} ({{ year }})",
			media.TypeWiki:         "{{ title }}",
		},
		OutputDir: paths.RootDir,
	}
}

// Merge layers o over d. It is the only place overrides are applied.
func Merge(d domain.Config, o domain.Overrides) (domain.Config, error) {
	cfg := d
	cfg.FileNameTemplates = make(map[media.MediaType]string, len(d.FileNameTemplates))
	for k, v := range d.FileNameTemplates {
		cfg.FileNameTemplates[k] = v
	}

	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.UseDefaultFrontMatter != nil {
		cfg.UseDefaultFrontMatter = *o.UseDefaultFrontMatter
	}
	if o.FileNameEscaping != nil {
		cfg.FileNameEscaping = domain.Escaping(strings.ToLower(strings.TrimSpace(*o.FileNameEscaping)))
	}
	if o.MaxFileNameLength != nil {
		cfg.MaxFileNameLength = *o.MaxFileNameLength
	}
	for k, v := range o.FileNameTemplates {
		t, err := parseTemplateKey(k)
		if err != nil {
			return cfg, err
		}
		cfg.FileNameTemplates[t] = v
	}
	if o.OutputDir != nil && *o.OutputDir != "" {
		cfg.OutputDir = *o.OutputDir
	}
	if o.MappingFile != nil {
		cfg.MappingFile = *o.MappingFile
	}
	if o.DatabasePath != nil {
		cfg.DatabasePath = *o.DatabasePath
	}

	// Data files follow the output directory unless set explicitly.
	paths := domain.NewPaths(cfg.OutputDir)
	if cfg.MappingFile == "" {
		cfg.MappingFile = paths.MappingPath
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = paths.DatabasePath
	}
	return cfg, nil
}

// Validate checks the merged configuration.
func Validate(cfg *domain.Config) error {
	switch cfg.FileNameEscaping {
	case domain.EscapingAuto, domain.EscapingPosix, domain.EscapingWindows:
	default:
		return fmt.Errorf("invalid file_name_escaping: %s (must be 'auto', 'posix', or 'windows')", cfg.FileNameEscaping)
	}

	if cfg.MaxFileNameLength < MinFileNameLength || cfg.MaxFileNameLength > MaxFileNameLength {
		return fmt.Errorf("invalid max_file_name_length: %d (must be between %d and %d)", cfg.MaxFileNameLength, MinFileNameLength, MaxFileNameLength)
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("output_dir is required (set via config.yaml or MEDIADB_OUTPUT_DIR environment variable)")
	}

	for t := range cfg.FileNameTemplates {
		if _, err := media.ParseMediaType(string(t)); err != nil {
			return fmt.Errorf("invalid file_name_templates key: %w", err)
		}
	}
	return nil
}

// Load loads configuration from multiple sources:
// 1. Built-in defaults
// 2. Config file (config.yaml, optional)
// 3. Environment variables (MEDIADB_*)
// 4. Command line flags bound to viper
func Load() (*domain.Config, error) {
	var o domain.Overrides
	if err := viper.Unmarshal(&o); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Unmarshal only sees environment variables for keys viper already knows.
	for key, dst := range map[string]**string{
		"log_level":          &o.LogLevel,
		"file_name_escaping": &o.FileNameEscaping,
		"output_dir":         &o.OutputDir,
		"mapping_file":       &o.MappingFile,
		"database_path":      &o.DatabasePath,
	} {
		if *dst == nil && viper.IsSet(key) {
			s := viper.GetString(key)
			*dst = &s
		}
	}
	if o.UseDefaultFrontMatter == nil && viper.IsSet("use_default_front_matter") {
		b := viper.GetBool("use_default_front_matter")
		o.UseDefaultFrontMatter = &b
	}
	if o.MaxFileNameLength == nil && viper.IsSet("max_file_name_length") {
		n := viper.GetInt("max_file_name_length")
		o.MaxFileNameLength = &n
	}

	cfg, err := Merge(Defaults(), o)
	if err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// viper lower-cases map keys, so media types are matched case-insensitively.
func parseTemplateKey(k string) (media.MediaType, error) {
	for _, t := range media.AllTypes() {
		if strings.EqualFold(string(t), strings.TrimSpace(k)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid file_name_templates key: %w", &media.UnsupportedTypeError{Type: k})
}
