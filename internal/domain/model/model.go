// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the combined date and clock layout used by every source.
const TimestampLayout = "2006-01-02 15:04"

// Size is a large bottle format.
type Size string

// Known bottle sizes, smallest first.
const (
	SizeMagnum         Size = "magnum"
	SizeJeroboam       Size = "jeroboam"
	SizeMethuselah     Size = "methuselah"
	SizeNabuchodonosor Size = "nabuchodonosor"
)

// LargeFormats lists every size in ascending volume.
func LargeFormats() []Size {
	return []Size{SizeMagnum, SizeJeroboam, SizeMethuselah, SizeNabuchodonosor}
}

// ParseSize maps a case-insensitive size word to a Size.
func ParseSize(s string) (Size, bool) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeMagnum:
		return SizeMagnum, true
	case SizeJeroboam:
		return SizeJeroboam, true
	case SizeMethuselah:
		return SizeMethuselah, true
	case SizeNabuchodonosor:
		return SizeNabuchodonosor, true
	}
	return "", false
}

// ScheduleRecord is one row of the rare-opening schedule as produced by the
// schedule extractor.
type ScheduleRecord struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Time  string `json:"time"` // HH:MM
	Name  string `json:"name"`
	Stand string `json:"stand"`
}

// Opening is a schedule record with an absolute timestamp.
type Opening struct {
	Name  string
	At    time.Time
	Stand string
}

// ParseTimestamp combines a date and a clock time in loc.
func ParseTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date or time (date=%q time=%q)", date, clock)
	}
	if loc == nil {
		loc = time.UTC
	}
	ts, err := time.ParseInLocation(TimestampLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q %q: %w", date, clock, err)
	}
	return ts, nil
}

// Opening converts the record, failing on a missing or unparsable date/time.
func (r ScheduleRecord) Opening(loc *time.Location) (Opening, error) {
	ts, err := ParseTimestamp(r.Date, r.Time, loc)
	if err != nil {
		return Opening{}, err
	}
	return Opening{Name: r.Name, At: ts, Stand: r.Stand}, nil
}

// PriceEntry is one line of the printed wine list.
type PriceEntry struct {
	FullName    string  `json:"full_name"`
	House       string  `json:"house"`
	GlassPrice  string  `json:"glass_price"`
	BottlePrice *string `json:"bottle_price"`
	StandNumber string  `json:"stand_number"`
	StandName   string  `json:"stand_name"`
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t is in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// MasterClass is a single ticketed session. Classes that run several times
// appear once per session with distinct IDs.
type MasterClass struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Presenter string    `json:"presenter,omitempty"`
	Link      string    `json:"link,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Wines     []string  `json:"wines"`
}

// Slot returns the booked interval of the session.
func (mc MasterClass) Slot() Interval {
	return Interval{Start: mc.Start, End: mc.End}
}
