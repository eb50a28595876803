package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates ("YYYY-MM-DD").
// Movements are dated at day resolution only; there is no time-of-day
// component anywhere in the system.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string into a UTC-midnight time.Time.
// Parsing is timezone-free: the resulting date is never shifted across a
// day boundary regardless of the host timezone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, s)
	}
	return t, nil
}

// FormatDate renders a date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to a UTC-midnight calendar date.
// All dates held in domain types pass through here, so equality checks
// and map keys on dates behave as day-granular comparisons.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
