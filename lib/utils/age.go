package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
)

const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = time.Duration(30.44 * float64(Day))
	Year  = time.Duration(365.25 * float64(Day))
)

var ageUnits = map[string]time.Duration{
	"y":       Year,
	"year":    Year,
	"years":   Year,
	"M":       Month,
	"month":   Month,
	"months":  Month,
	"w":       Week,
	"week":    Week,
	"weeks":   Week,
	"d":       Day,
	"day":     Day,
	"days":    Day,
	"h":       time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"m":       time.Minute,
	"min":     time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"s":       time.Second,
	"sec":     time.Second,
	"second":  time.Second,
	"seconds": time.Second,
}

// ParseAge parses relative durations like 3M, 2w, 1y6M or "1year 2months".
// Single letter units are case sensitive: M is month and m is minute.
func ParseAge(text string) (time.Duration, error) {
	rest := strings.TrimSpace(text)
	if rest == "" {
		return 0, errors.New("empty duration")
	}

	var result time.Duration
	for rest != "" {
		i := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if i == 0 {
			return 0, errors.Errorf("invalid duration %q: expected a number at %q", text, rest)
		}
		if i < 0 {
			return 0, errors.Errorf("invalid duration %q: missing unit after %v", text, rest)
		}

		value, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, errors.Wrapf(err, "invalid duration %q", text)
		}
		rest = strings.TrimLeft(rest[i:], " ")

		j := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		if j < 0 {
			j = len(rest)
		}

		unit, ok := ageUnits[rest[:j]]
		if !ok {
			unit, ok = ageUnits[strings.ToLower(rest[:j])]
		}
		if !ok || j == 0 {
			return 0, errors.Errorf("invalid duration %q: unknown unit %q", text, rest[:j])
		}

		if int64(value) > math.MaxInt64/int64(unit) {
			return 0, errors.Errorf("invalid duration %q: too large", text)
		}
		step := time.Duration(value) * unit
		if result > math.MaxInt64-step {
			return 0, errors.Errorf("invalid duration %q: too large", text)
		}

		result += step
		rest = strings.TrimSpace(rest[j:])
	}

	if result <= 0 {
		return 0, errors.Errorf("invalid duration %q: must be greater than zero", text)
	}

	return result, nil
}
