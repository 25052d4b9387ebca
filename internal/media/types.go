package media

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// MediaType is the discriminant of a record. Values are persisted verbatim in
// front matter, mapping files and the record store.
type MediaType string

const (
	TypeMovie        MediaType = "movie"
	TypeSeries       MediaType = "series"
	TypeGame         MediaType = "game"
	TypeBook         MediaType = "book"
	TypeComicManga   MediaType = "comicManga"
	TypeMusicRelease MediaType = "musicRelease"
	TypeBoardGame    MediaType = "boardgame"
	TypeWiki         MediaType = "wiki"
)

// ErrUnsupportedType is matched by every UnsupportedTypeError.
var ErrUnsupportedType = errors.New("unsupported media type")

// UnsupportedTypeError reports a discriminant outside the closed set of media
// types. Guessing a variant would corrupt the record, so callers get this
// instead of a default.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// AllTypes returns every supported media type in a stable order.
func AllTypes() []MediaType {
	return []MediaType{
		TypeMovie,
		TypeSeries,
		TypeGame,
		TypeBook,
		TypeComicManga,
		TypeMusicRelease,
		TypeBoardGame,
		TypeWiki,
	}
}

// ParseMediaType accepts the persisted form of a media type. Surrounding
// whitespace is ignored, case is not.
func ParseMediaType(s string) (MediaType, error) {
	t := MediaType(strings.TrimSpace(s))
	for _, known := range AllTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", &UnsupportedTypeError{Type: s}
}

func (t MediaType) String() string {
	return string(t)
}
