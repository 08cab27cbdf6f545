package lib

import (
	"path/filepath"
	"regexp"
	"strings"
)

var guidPattern = regexp.MustCompile(`cpb-aacip-[a-zA-Z0-9]*-[a-zA-Z0-9]*`)

type IdentifierSource int

const (
	// IdentifierMatched means the path contained a cpb-aacip GUID.
	IdentifierMatched IdentifierSource = iota
	// IdentifierFallback means the base filename without extension was used.
	IdentifierFallback
)

func (s IdentifierSource) String() string {
	switch s {
	case IdentifierMatched:
		return "matched"
	case IdentifierFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

type IdentifierMatch struct {
	Value  string
	Source IdentifierSource
}

// DeriveIdentifier extracts the asset GUID from a path. The first
// cpb-aacip-<alnum>-<alnum> substring wins; without one the basename minus its
// extension is used. Any string that happens to contain the pattern matches.
func DeriveIdentifier(path string) IdentifierMatch {
	if match := guidPattern.FindString(path); match != "" {
		if i := strings.LastIndex(match, "/"); i >= 0 {
			match = match[i+1:]
		}
		return IdentifierMatch{Value: match, Source: IdentifierMatched}
	}
	return IdentifierMatch{Value: Basename(path), Source: IdentifierFallback}
}

// Basename returns the file name without directory or extension. Leading dots
// belong to the name, so ".mp4" has no extension.
func Basename(path string) string {
	base := filepath.Base(path)
	name := strings.TrimLeft(base, ".")
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return base
	}
	return base[:len(base)-len(name)+i]
}
