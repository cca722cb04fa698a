package claim

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pescuma/claim/lib/filters"
	"github.com/pescuma/claim/lib/ownership"
	"github.com/pescuma/claim/lib/utils"
)

var ErrInvalidOptions = errors.New("invalid options")

type Options struct {
	// Dir limits the report to files inside it. Empty means the whole repository.
	Dir string

	Emails      []string
	ShowAuthors bool
	MaxAuthors  int
	ListAuthors bool

	Flat    bool
	All     bool
	Reverse bool
	Lines   bool
	// MaxDepth limits the printed tree. Nil means no limit.
	MaxDepth *int

	MaxAge      string
	CodeOnly    bool
	IgnoreUsers []string
	Aliases     map[string]string

	Include      []string
	Exclude      []string
	SkipVendored bool

	Jobs       int
	NoProgress bool
	Now        time.Time
}

type plan struct {
	emails      []string
	maxAge      time.Duration
	ignored     filters.PeopleFilter
	identities  *ownership.Identities
	paths       filters.PathFilter
	maxDepth    int
	finalizeOpt ownership.FinalizeOptions
}

func invalid(format string, a ...any) error {
	return errors.Wrapf(ErrInvalidOptions, format, a...)
}

func (o *Options) validate() (*plan, error) {
	if o.ShowAuthors {
		switch {
		case len(o.Emails) > 0:
			return nil, invalid("--show-authors can't be used with --email")
		case o.All:
			return nil, invalid("--show-authors can't be used with --all")
		case o.Reverse:
			return nil, invalid("--show-authors can't be used with --reverse")
		case o.MaxAuthors < 1:
			return nil, invalid("--max-authors must be at least 1, got %v", o.MaxAuthors)
		}
	}

	if o.ListAuthors && (o.ShowAuthors || o.Flat) {
		return nil, invalid("--list-authors can't be used with --show-authors or --flat")
	}

	result := &plan{
		maxDepth: -1,
		finalizeOpt: ownership.FinalizeOptions{
			All:     o.All || o.ShowAuthors,
			Reverse: o.Reverse,
		},
	}

	if o.MaxDepth != nil {
		if o.Flat {
			return nil, invalid("--max-depth can't be used with --flat")
		}
		if *o.MaxDepth < 0 {
			return nil, invalid("--max-depth must not be negative, got %v", *o.MaxDepth)
		}
		result.maxDepth = *o.MaxDepth
	}

	for _, e := range o.Emails {
		err := ownership.ValidateIdentity(e)
		if err != nil {
			return nil, invalid("--email %v: %v", e, err)
		}
	}
	result.emails = o.Emails

	if strings.TrimSpace(o.MaxAge) != "" {
		age, err := utils.ParseAge(o.MaxAge)
		if err != nil {
			return nil, invalid("--max-age: %v", err)
		}
		result.maxAge = age
	}

	ignored, err := filters.ParsePeopleFilter(o.IgnoreUsers)
	if err != nil {
		return nil, invalid("--ignore-user: %v", err)
	}
	result.ignored = ignored

	identities, err := ownership.NewIdentities(o.Aliases)
	if err != nil {
		return nil, invalid("--alias: %v", err)
	}
	result.identities = identities

	paths, err := filters.ParsePathFilter(&filters.PathOptions{
		Include:      o.Include,
		Exclude:      o.Exclude,
		SkipVendored: o.SkipVendored,
	})
	if err != nil {
		return nil, invalid("%v", err)
	}
	result.paths = paths

	if o.Jobs < 0 {
		return nil, invalid("--jobs must not be negative, got %v", o.Jobs)
	}

	return result, nil
}

// relativeDir returns Dir relative to the repository root, using slashes. "." means the whole
// repository.
func (o *Options) relativeDir(root string) (string, error) {
	if o.Dir == "" {
		return ".", nil
	}

	dir, err := utils.PathAbs(o.Dir)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", invalid("%v is not inside the repository at %v", o.Dir, root)
	}

	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", invalid("%v is not inside the repository at %v", o.Dir, root)
	}

	return rel, nil
}
