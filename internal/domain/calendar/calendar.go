// Package calendar holds the day-granularity date helpers shared by every
// aggregation in the service.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

// DayLayout is the canonical stored representation of a calendar day.
const DayLayout = "2006-01-02"

// Normalize returns the YYYY-MM-DD string of t using the calendar fields of t in
// loc. It never converts to UTC, so the stored day is the day the farmer meant.
func Normalize(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// ParseDay accepts a canonical day or an RFC 3339 timestamp. Timestamps are
// moved to loc before the day is taken.
func ParseDay(value string, loc *time.Location) (civil.Date, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)

	if len(value) == len(DayLayout) {
		d, err := civil.ParseDate(value)
		if err != nil {
			return civil.Date{}, fmt.Errorf("parse day %q: %w", value, err)
		}
		return d, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	return civil.DateOf(t.In(loc)), nil
}

// Today is the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(now.In(loc))
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from, to civil.Date) int {
	return to.DaysSince(from)
}

// Corrector shifts stored days before they are displayed or compared with
// today. Dates written back to storage must never go through it.
type Corrector struct {
	OffsetDays int
}

// Correct applies the configured offset.
func (c Corrector) Correct(d civil.Date) civil.Date {
	if c.OffsetDays == 0 {
		return d
	}
	return d.AddDays(c.OffsetDays)
}

// Range is an inclusive day interval.
type Range struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// NewRange validates that start is not after end.
func NewRange(start, end civil.Date) (Range, error) {
	if start.After(end) {
		return Range{}, fmt.Errorf("range start %s is after end %s", start, end)
	}
	return Range{Start: start, End: end}, nil
}

// Contains reports whether d falls inside the range, bounds included.
func (r Range) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// SingleDay is the range covering only d.
func SingleDay(d civil.Date) Range {
	return Range{Start: d, End: d}
}

// Settings bundles the farm time zone with the display correction.
type Settings struct {
	Location  *time.Location
	Corrector Corrector
}

// Today is the calendar day of now in the farm time zone.
func (s Settings) Today(now time.Time) civil.Date {
	return Today(now, s.Location)
}
