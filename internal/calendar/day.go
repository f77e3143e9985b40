// Package calendar provides a calendar-day value type and month helpers.
//
// A Day carries no time of day and no location. Timestamps are normalised
// with StartOfDay using the location of the timestamp itself, so callers that
// pass local times get local calendar days. All comparisons and arithmetic on
// Day values are plain integer operations.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO-8601 layout used to encode a Day.
const DateFormat = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day is a calendar date counted in days since 1970-01-01.
type Day int32

// Date returns the Day for the given year, month and day of month.
// Out-of-range values are normalised the same way time.Date does.
func Date(year int, month time.Month, day int) Day {
	return Day(floorDiv(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix(), secondsPerDay))
}

// StartOfDay truncates t to its calendar day in t's location.
func StartOfDay(t time.Time) Day {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today returns the current local calendar day.
func Today() Day {
	return StartOfDay(time.Now())
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	return StartOfDay(a) == StartOfDay(b)
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Day, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return StartOfDay(t), nil
}

// AddDays returns d shifted by n days. n may be negative.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool { return d < other }

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool { return d > other }

// Date returns the year, month and day of month of d.
func (d Day) Date() (year int, month time.Month, day int) {
	return d.utc().Date()
}

// Weekday returns the day of the week of d.
func (d Day) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// DayOfYear returns the 1-based ordinal of d within its year.
func (d Day) DayOfYear() int {
	return d.utc().YearDay()
}

// Time returns midnight of d in loc. A nil loc means time.Local.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, loc)
}

func (d Day) String() string {
	return d.utc().Format(DateFormat)
}

// MarshalText encodes d as YYYY-MM-DD.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts YYYY-MM-DD and, for data written by older clients,
// full RFC 3339 timestamps. Timestamps are converted to local time and
// truncated, so time-of-day noise never survives decoding.
func (d *Day) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if t, err := time.Parse(DateFormat, s); err == nil {
		*d = StartOfDay(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	*d = StartOfDay(t.Local())
	return nil
}

func (d Day) utc() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
