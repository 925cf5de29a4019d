// Package date provides a UTC calendar day type and day indexed series.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

const Day = 24 * time.Hour

// Date represents a UTC calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// FromTime returns the UTC day of t.
func FromTime(t time.Time) Date { return New(t.UTC().Date()) }

// Time returns the start of the day, at midnight UTC.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Year() int                   { return d.y }
func (d Date) Month() time.Month           { return d.m }
func (d Date) Day() int                    { return d.d }
func (d Date) Weekday() time.Weekday       { return d.Time().Weekday() }
func (d Date) ISOWeek() (year, week int)   { return d.Time().ISOWeek() }
func (d Date) Before(x Date) bool          { return d.Time().Before(x.Time()) }
func (d Date) After(x Date) bool           { return d.Time().After(x.Time()) }
func (d Date) Add(days int) Date           { return New(d.y, d.m, d.d+days) }
func (d Date) Format(layout string) string { return d.Time().Format(layout) }
func (d Date) String() string              { return d.Format(DateFormat) }

// Compare returns -1, 0 or +1 when d is before, equal or after x.
func (d Date) Compare(x Date) int { return d.Time().Compare(x.Time()) }

// StartOf returns the first day of the period containing d. Weeks start on Monday.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Weekly:
		return d.Add(-(int(d.Weekday()) + 6) % 7)
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	default:
		return d
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	start := d.StartOf(p)
	switch p {
	case Weekly:
		return start.Add(6)
	case Monthly:
		return New(start.y, start.m+1, 0)
	case Quarterly:
		return New(start.y, start.m+3, 0)
	case Yearly:
		return New(start.y, time.December, 31)
	default:
		return d
	}
}

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// UnmarshalJSON decodes a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	on, err := Parse(str)
	if err != nil {
		return err
	}
	*d = on
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
