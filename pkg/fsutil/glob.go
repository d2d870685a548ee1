package fsutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher tests slash separated relative paths against ignore patterns.
// "*" stays within one path segment and "**" crosses segments. A pattern
// without a slash also matches the base name, so "*.tmp.md" works at any depth.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewMatcher compiles patterns. It fails on the first malformed one.
func NewMatcher(patterns []string) (*Matcher, error) {
	matcher := &Matcher{patterns: patterns}

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}

		for _, variant := range variants {
			compiled, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
			}
			matcher.globs = append(matcher.globs, compiled)
		}
	}

	return matcher, nil
}

// Patterns returns the source patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}

// Match reports whether rel matches any pattern.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}

	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	for _, compiled := range m.globs {
		if compiled.Match(rel) || compiled.Match(base) {
			return true
		}
	}
	return false
}

// MatchDir reports whether the directory rel, or everything below it,
// is matched. "vendor/**" matches the directory "vendor".
func (m *Matcher) MatchDir(rel string) bool {
	if m == nil {
		return false
	}

	rel = strings.TrimSuffix(filepath.ToSlash(rel), "/")
	return m.Match(rel) || m.Match(rel+"/")
}
