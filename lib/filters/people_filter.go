package filters

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// PeopleFilter returns true for identities that match.
type PeopleFilter func(email string) bool

// ParsePeopleFilter compiles email globs, like *@bots.example.com. An empty list matches nobody.
func ParsePeopleFilter(patterns []string) (PeopleFilter, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid email pattern %v", p)
		}

		globs = append(globs, g)
	}

	return func(email string) bool {
		for _, g := range globs {
			if g.Match(email) {
				return true
			}
		}
		return false
	}, nil
}
