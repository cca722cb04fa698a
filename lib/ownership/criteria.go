package ownership

import (
	"strings"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
)

// Criteria decides which lines of a file count as owned. It is built once and shared,
// read only, by all aggregations of a run.
type Criteria struct {
	authors *set.Set[string]

	// MaxAge, when positive, makes lines older than Now - MaxAge not owned. They still count
	// toward the total.
	MaxAge time.Duration
	// Now is the reference time for MaxAge.
	Now time.Time
	// Ignored lines are removed from the file, as if they were not there. Nil ignores nobody.
	Ignored func(email string) bool
	// Identities maps aliases to one identity before matching. Nil means exact match.
	Identities *Identities
}

// NewCriteria creates criteria matching lines by any of the given emails. Matching is exact
// and case-sensitive. With no emails nothing is owned, which is what the authors mode needs.
func NewCriteria(authors []string, now time.Time) *Criteria {
	result := &Criteria{
		authors: set.New[string](len(authors)),
		Now:     now,
	}

	for _, a := range authors {
		result.authors.Insert(a)
	}

	return result
}

func (c *Criteria) IsAuthor(email string) bool {
	return c.authors.Contains(email)
}

func (c *Criteria) isIgnored(email string, resolved string) bool {
	if c.Ignored == nil {
		return false
	}

	return c.Ignored(email) || c.Ignored(resolved)
}

func (c *Criteria) isTooOld(date time.Time) bool {
	if c.MaxAge <= 0 || date.IsZero() {
		return false
	}

	return date.Before(c.Now.Add(-c.MaxAge))
}

// Identities is an explicit alias table: several emails of one person map to one of them.
type Identities struct {
	aliases map[string]string
}

// NewIdentities validates an alias table. Chains (a -> b -> c) are resolved up front; cycles
// are an error.
func NewIdentities(aliases map[string]string) (*Identities, error) {
	result := &Identities{
		aliases: make(map[string]string, len(aliases)),
	}

	for from, to := range aliases {
		if err := ValidateIdentity(from); err != nil {
			return nil, err
		}
		if err := ValidateIdentity(to); err != nil {
			return nil, err
		}
	}

	for from := range aliases {
		seen := set.New[string](2)
		to := from
		for {
			next, ok := aliases[to]
			if !ok || next == to {
				break
			}
			if seen.Contains(next) {
				return nil, errors.Errorf("alias cycle involving %v", from)
			}
			seen.Insert(to)
			to = next
		}

		result.aliases[from] = to
	}

	return result, nil
}

func (i *Identities) Resolve(email string) string {
	if i == nil {
		return email
	}

	if to, ok := i.aliases[email]; ok {
		return to
	}

	return email
}

// ValidateIdentity checks that an identity can match a blame email: not empty and without
// whitespace or angle brackets.
func ValidateIdentity(email string) error {
	switch {
	case email == "":
		return errors.New("empty identity")
	case strings.ContainsAny(email, " \t\r\n<>"):
		return errors.Errorf("invalid identity %q", email)
	default:
		return nil
	}
}
