package media

import (
	"reflect"
	"strings"
)

const (
	// TypeKey, IDKey and DataSourceKey identify a record and are never
	// remapped or removed on export.
	TypeKey       = "type"
	IDKey         = "id"
	DataSourceKey = "dataSource"

	// TagsKey carries the computed tag path of a record.
	TagsKey = "tags"

	// UserDataKey names the sub-object holding user-controlled fields in the
	// persisted (nested) form of a record.
	UserDataKey = "userData"

	// Tag is attached to every exported record.
	Tag = "media-db"
)

// Record is one normalized catalog item. The set of implementations is
// closed: Movie, Series, Game, Book, ComicManga, MusicRelease, BoardGame and
// Wiki.
type Record interface {
	// MediaType returns the fixed discriminant of the variant.
	MediaType() MediaType
	// Summary returns a short disambiguating label (title and year).
	Summary() string
	// Tags returns the fixed labels attached to every note of the variant.
	Tags() []string
	// Common exposes the shared base fields.
	Common() *Base

	isRecord()
}

// Base holds the fields every variant shares. The type discriminant is not
// stored here: it is derived from the variant.
type Base struct {
	SubType      string `json:"subType" yaml:"subType"`
	Title        string `json:"title" yaml:"title"`
	EnglishTitle string `json:"englishTitle" yaml:"englishTitle"`
	Year         string `json:"year" yaml:"year"`
	DataSource   string `json:"dataSource" yaml:"dataSource"`
	URL          string `json:"url" yaml:"url"`
	ID           string `json:"id" yaml:"id"`
}

func (b *Base) Common() *Base { return b }

func (b *Base) isRecord() {}

func (b *Base) Summary() string {
	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = strings.TrimSpace(b.EnglishTitle)
	}
	year := strings.TrimSpace(b.Year)
	if year == "" {
		return title
	}
	return title + " (" + year + ")"
}

// Default returns a fully initialized, empty record of type t.
func Default(t MediaType) (Record, error) {
	var r Record
	switch t {
	case TypeMovie:
		r = &Movie{}
	case TypeSeries:
		r = &Series{}
	case TypeGame:
		r = &Game{}
	case TypeBook:
		r = &Book{}
	case TypeComicManga:
		r = &ComicManga{}
	case TypeMusicRelease:
		r = &MusicRelease{}
	case TypeBoardGame:
		r = &BoardGame{}
	case TypeWiki:
		r = &Wiki{}
	default:
		return nil, &UnsupportedTypeError{Type: string(t)}
	}
	Normalize(r)
	return r, nil
}

// Normalize replaces nil sequences with empty ones so that no declared field
// is ever left without a value.
func Normalize(r Record) {
	for _, f := range allFields(r) {
		if f.Kind == KindStrings && f.v.IsNil() {
			f.v.Set(reflect.ValueOf([]string{}))
		}
	}
}

// ToMetaData flattens r into its export payload: the type discriminant, the
// catalog fields, the user fields and the computed tag path, in that order.
func ToMetaData(r Record) *Metadata {
	md := WithoutUserData(r)
	for _, f := range UserDataFields(r) {
		md.Set(f.Name, f.Value())
	}
	md.Set(TagsKey, strings.Join(r.Tags(), "/"))
	return md
}

// WithoutUserData returns an independent copy of r's catalog fields. Neither
// the user fields nor a userData key are present.
func WithoutUserData(r Record) *Metadata {
	md := NewMetadata()
	md.Set(TypeKey, string(r.MediaType()))
	for _, f := range Fields(r) {
		md.Set(f.Name, f.Value())
	}
	return md
}

// Clone returns a deep copy of r. Sequences are copied, so mutating the
// clone never affects r.
func Clone(r Record) Record {
	v := reflect.ValueOf(r)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return r
	}
	cp := reflect.New(v.Elem().Type())
	cp.Elem().Set(v.Elem())
	c := cp.Interface().(Record)
	for _, f := range allFields(c) {
		if f.Kind == KindStrings && !f.v.IsNil() {
			f.v.Set(reflect.ValueOf(cloneStrings(f.v.Interface().([]string))))
		}
	}
	return c
}

// Identity returns the (dataSource, id) pair that identifies r. Vendor ids are
// unique only within their data source.
func Identity(r Record) string {
	b := r.Common()
	return b.DataSource + ":" + b.ID
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
