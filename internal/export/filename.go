package export

import (
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/varoOP/mediadb/internal/domain"
)

const untitled = "untitled"

// ResolveEscaping turns auto into the rules of the running platform.
func ResolveEscaping(mode domain.Escaping) domain.Escaping {
	if mode == domain.EscapingPosix || mode == domain.EscapingWindows {
		return mode
	}
	if runtime.GOOS == "windows" {
		return domain.EscapingWindows
	}
	return domain.EscapingPosix
}

// SanitizeFileName makes name usable as a single path element and limits it
// to maxBytes bytes without splitting a character.
func SanitizeFileName(name string, mode domain.Escaping, maxBytes int) string {
	mode = ResolveEscaping(mode)
	name = norm.NFC.String(name)

	var b strings.Builder
	for _, r := range name {
		if isForbiddenFileNameRune(r, mode) {
			b.WriteRune('-')
			continue
		}
		b.WriteRune(r)
	}

	out := trimName(b.String(), mode)
	if maxBytes > 0 && len(out) > maxBytes {
		out = trimName(truncate(out, maxBytes), mode)
	}
	if out == "." || out == ".." {
		out = ""
	}
	if mode == domain.EscapingWindows && isWindowsReservedName(out) {
		if maxBytes > 0 {
			out = truncate(out, maxBytes-len("-file"))
		}
		out += "-file"
	}
	if out == "" {
		return untitled
	}
	return out
}

// truncate cuts s to at most n bytes at a character boundary.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func trimName(s string, mode domain.Escaping) string {
	s = strings.TrimSpace(s)
	if mode == domain.EscapingWindows {
		s = strings.TrimRight(s, ". ")
	}
	return s
}

func isForbiddenFileNameRune(r rune, mode domain.Escaping) bool {
	if r == 0 || r == '/' || r == utf8.RuneError || unicode.IsControl(r) {
		return true
	}
	if mode != domain.EscapingWindows {
		return false
	}
	switch r {
	case '<', '>', ':', '"', '\\', '|', '?', '*':
		return true
	default:
		return false
	}
}

func isWindowsReservedName(name string) bool {
	if name == "" {
		return false
	}
	upper := strings.ToUpper(strings.TrimSpace(name))
	if idx := strings.IndexRune(upper, '.'); idx >= 0 {
		upper = upper[:idx]
	}
	switch upper {
	case "CON", "PRN", "AUX", "NUL",
		"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
		"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9":
		return true
	default:
		return false
	}
}
