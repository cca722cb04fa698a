package filters

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
	"github.com/pkg/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

// PathFilter decides if a file, given by its slash separated path relative to the repository
// root, should be blamed.
type PathFilter func(path string) bool

type PathOptions struct {
	// Include are doublestar globs. Empty means everything.
	Include []string
	// Exclude are gitignore style patterns.
	Exclude []string
	// SkipVendored removes files that look like third party code.
	SkipVendored bool
}

func ParsePathFilter(opts *PathOptions) (PathFilter, error) {
	filters := make([]PathFilter, 0, 3)

	include, err := parseIncludes(opts.Include)
	if err != nil {
		return nil, err
	}
	if include != nil {
		filters = append(filters, include)
	}

	exclude := parseExcludes(opts.Exclude)
	if exclude != nil {
		filters = append(filters, exclude)
	}

	if opts.SkipVendored {
		filters = append(filters, func(path string) bool {
			return !enry.IsVendor(path)
		})
	}

	return func(path string) bool {
		for _, f := range filters {
			if !f(path) {
				return false
			}
		}
		return true
	}, nil
}

func parseIncludes(rules []string) (PathFilter, error) {
	globs := make([]string, 0, len(rules))

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}

		if !doublestar.ValidatePattern(rule) {
			return nil, errors.Errorf("invalid include glob: %v", rule)
		}

		globs = append(globs, rule)
	}

	if len(globs) == 0 {
		return nil, nil
	}

	return func(path string) bool {
		for _, g := range globs {
			m, err := doublestar.Match(g, path)
			if err == nil && m {
				return true
			}
		}
		return false
	}, nil
}

func parseExcludes(rules []string) PathFilter {
	lines := make([]string, 0, len(rules))

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			lines = append(lines, rule)
		}
	}

	if len(lines) == 0 {
		return nil
	}

	gi := ignore.CompileIgnoreLines(lines...)

	return func(path string) bool {
		return !gi.MatchesPath(path)
	}
}
