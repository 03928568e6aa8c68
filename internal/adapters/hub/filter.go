package hub

import (
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/zerr"
)

// Filter selects snapshot files using shell-style allow and ignore patterns.
// Wildcards match across "/" and a pattern ending in "/" matches everything
// below that directory.
type Filter struct {
	allow  []glob.Glob
	ignore []glob.Glob
}

// NewFilter compiles the allow and ignore patterns. Empty allow patterns keep
// every file.
func NewFilter(allow, ignore []string) (*Filter, error) {
	a, err := compilePatterns(allow)
	if err != nil {
		return nil, err
	}
	i, err := compilePatterns(ignore)
	if err != nil {
		return nil, err
	}
	return &Filter{allow: a, ignore: i}, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(patterns))
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if strings.HasSuffix(p, "/") {
			p += "*"
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		g, err := glob.Compile(p)
		if err != nil {
			return nil, zerr.With(zerr.With(domain.ErrInvalidPattern, "pattern", p), "reason", err.Error())
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether path passes the filter.
func (f *Filter) Match(path string) bool {
	if len(f.allow) > 0 && !matchAny(f.allow, path) {
		return false
	}
	return !matchAny(f.ignore, path)
}

// Select returns the matching paths in their original order.
func (f *Filter) Select(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
