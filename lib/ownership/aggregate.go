package ownership

import (
	"github.com/pescuma/claim/lib/blame"
)

// FileOwnership is the result of aggregating the blame of one file.
type FileOwnership struct {
	Path  string
	Total int
	Owned int
	// Authors has the lines of each identity that pass the age filter. Identities seen only in
	// older lines are present with 0.
	Authors map[string]int
}

// Aggregate counts the lines of one file and the ones owned according to criteria. It does no
// I/O and does not modify its inputs.
func Aggregate(path string, lines []blame.Line, criteria *Criteria) *FileOwnership {
	result := &FileOwnership{
		Path:    path,
		Authors: make(map[string]int),
	}

	for _, line := range lines {
		email := criteria.Identities.Resolve(line.Email)

		if criteria.isIgnored(line.Email, email) {
			continue
		}

		result.Total++

		if criteria.isTooOld(line.Date) {
			if _, ok := result.Authors[email]; !ok {
				result.Authors[email] = 0
			}
			continue
		}

		result.Authors[email]++

		if criteria.IsAuthor(email) {
			result.Owned++
		}
	}

	return result
}
