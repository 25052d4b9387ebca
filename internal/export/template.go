package export

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/varoOP/mediadb/internal/media"
)

const (
	enumPrefix    = "ENUM:"
	listSeparator = ", "
)

// A placeholder is exactly "{{ name }}" or "{{ ENUM:name }}" with one space
// inside each brace pair. Anything else is plain text.
var placeholder = regexp.MustCompile(`\{\{ (ENUM:)?([A-Za-z_][A-Za-z0-9_]*) \}\}`)

type token struct {
	start, end int
	field      string
	enum       bool
}

func scan(segment string) []token {
	matches := placeholder.FindAllStringSubmatchIndex(segment, -1)
	tokens := make([]token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, token{
			start: m[0],
			end:   m[1],
			enum:  m[2] >= 0,
			field: segment[m[4]:m[5]],
		})
	}
	return tokens
}

// Render expands template against r's exported fields, under their original
// names. Unknown fields expand to the empty string.
func Render(template string, r media.Record) string {
	return RenderMetadata(template, media.ToMetaData(r))
}

// RenderMetadata expands template against md.
//
// The template is split into lines. A line with ENUM placeholders is
// repeated once per element of its longest ENUM field, each repeat taking
// the element at its own index; repeats are concatenated.
func RenderMetadata(template string, md *media.Metadata) string {
	var b strings.Builder
	for _, segment := range strings.SplitAfter(template, "\n") {
		renderSegment(&b, segment, md)
	}
	return b.String()
}

func renderSegment(b *strings.Builder, segment string, md *media.Metadata) {
	tokens := scan(segment)
	if len(tokens) == 0 {
		b.WriteString(segment)
		return
	}

	repeats := 1
	lists := make(map[string][]string)
	for _, t := range tokens {
		if !t.enum {
			continue
		}
		v, _ := md.Get(t.field)
		items := enumItems(v)
		lists[t.field] = items
		if len(items) > repeats {
			repeats = len(items)
		}
	}

	for i := 0; i < repeats; i++ {
		last := 0
		for _, t := range tokens {
			b.WriteString(segment[last:t.start])
			if t.enum {
				if items := lists[t.field]; i < len(items) {
					b.WriteString(items[i])
				}
			} else {
				v, _ := md.Get(t.field)
				b.WriteString(formatValue(v))
			}
			last = t.end
		}
		b.WriteString(segment[last:])
	}
}

// formatValue renders a scalar or joins a sequence for substitution.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, listSeparator)
	case []any:
		return strings.Join(enumItems(t), listSeparator)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// enumItems returns the elements an ENUM placeholder iterates. A scalar is a
// single element.
func enumItems(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			items = append(items, formatValue(item))
		}
		return items
	}
	return []string{formatValue(v)}
}
