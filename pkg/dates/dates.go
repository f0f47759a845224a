// Package dates provides the calendar-day arithmetic used for due dates
// and streaks. Scheduling never compares wall-clock instants directly:
// a review at 23:59 and one at 00:01 the next local day belong to
// different days even though they are two minutes apart.
package dates

import (
	"database/sql/driver"
	"encoding"
	"fmt"
	"time"
)

// Day identifies one local calendar day, independent of time zone or
// time of day. The zero value is the Unix epoch day (1970-01-01).
type Day int

// Layout is the canonical textual form of a Day.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Day(0)
	_ encoding.TextMarshaler   = Day(0)
	_ encoding.TextUnmarshaler = (*Day)(nil)
	_ driver.Valuer            = Day(0)
)

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// ParseDay parses a day in the YYYY-MM-DD form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return 0, fmt.Errorf("dates: invalid day %q: %v", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day. Useful for formatting and for
// feeding the day back into time-based APIs.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day { return d + Day(n) }

// Sub returns the number of days from o to d.
func (d Day) Sub(o Day) int { return int(d - o) }

// Before reports whether d is an earlier day than o.
func (d Day) Before(o Day) bool { return d < o }

// After reports whether d is a later day than o.
func (d Day) After(o Day) bool { return d > o }

// String returns the day in the YYYY-MM-DD form.
func (d Day) String() string { return d.Time().Format(Layout) }

// MarshalText implements encoding.TextMarshaler. Days serialize as
// YYYY-MM-DD, which also makes them usable as JSON object keys.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	v, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Value implements driver.Valuer; days are stored as TEXT.
func (d Day) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Day) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		*d = DayOf(v)
		return nil
	default:
		return fmt.Errorf("dates: cannot scan %T into Day", src)
	}
}
