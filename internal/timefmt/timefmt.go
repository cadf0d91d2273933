// Package timefmt renders timestamps relative to "now" in one pinned
// timezone, regardless of the viewer's locale.
package timefmt

import (
	"fmt"
	"math"
	"time"
)

// Formatter formats timestamps in its pinned zone. The clock is injectable
// so output is deterministic under test.
type Formatter struct {
	loc *time.Location
	now func() time.Time
}

// New pins the formatter to the named timezone.
func New(zone string) (*Formatter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Formatter{loc: loc, now: time.Now}, nil
}

// NewWithClock is New with a fixed clock, for tests.
func NewWithClock(zone string, now func() time.Time) (*Formatter, error) {
	f, err := New(zone)
	if err != nil {
		return nil, err
	}
	f.now = now
	return f, nil
}

// Relative describes the timestamp relative to today in the pinned zone.
// Unparseable input is returned verbatim.
func (f *Formatter) Relative(iso string) string {
	given, err := f.parse(iso)
	if err != nil {
		return iso
	}

	now := f.now().In(f.loc)
	g := given.In(f.loc)
	clock := g.Format("03:04 PM")
	days := calendarDays(now, g, f.loc)

	switch {
	case days == 0:
		return fmt.Sprintf("Today at %s", clock)
	case days == -1:
		return fmt.Sprintf("Yesterday you missed alarm at %s", clock)
	case days == 1:
		return fmt.Sprintf("Tomorrow at %s", clock)
	case days < -1:
		n := -days
		if n == 1 {
			return fmt.Sprintf("1 day ago you missed the alarm at %s", clock)
		}
		return fmt.Sprintf("%d days ago you missed the alarm at %s", n, clock)
	case days <= 7:
		return fmt.Sprintf("Next week %s at %s", g.Weekday(), clock)
	default:
		return g.Format("January 2, 2006 at 03:04 PM")
	}
}

// parse accepts RFC3339 timestamps; zone-less ones are taken in the pinned
// zone.
func (f *Formatter) parse(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, f.loc)
}

// calendarDays is the whole-day calendar distance from now to g.
func calendarDays(now, g time.Time, loc *time.Location) int {
	nd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	gd := time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(gd.Sub(nd).Hours() / 24))
}
