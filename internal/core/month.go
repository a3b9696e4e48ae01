package core

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// Month is a calendar month encoded as YYYY-MM.
type Month string

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil || t.Format(monthLayout) != s {
		return "", fmt.Errorf("%w %q: expected YYYY-MM", ErrInvalidMonth, s)
	}
	return Month(s), nil
}

// MonthOf returns the month t falls in, computed in UTC like the stored
// timestamps.
func MonthOf(t time.Time) Month {
	return Month(t.UTC().Format(monthLayout))
}

// Contains reports whether t belongs to m. This is the prefix match of the
// UTC ISO-8601 encoding of t against m.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// Label returns the month in long form, e.g. "October 2026".
func (m Month) Label() string {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return string(m)
	}
	return t.Format("January 2006")
}

func (m Month) String() string { return string(m) }
