// Package timefmt formats backend timestamps for display and for the
// datetime-local inputs of the event editor.
package timefmt

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "Mon, Jan 2, 2006"
	shortDateLayout = "Jan 2, 2006"
	clockLayout     = "3:04 PM"
	// InputLayout is the value format of an HTML datetime-local input.
	InputLayout = "2006-01-02T15:04"
)

// Schedule is the two-line rendering of an event's time span. Times is
// empty for multi-day events.
type Schedule struct {
	Date  string
	Times string
}

func (s Schedule) String() string {
	if s.Times == "" {
		return s.Date
	}
	return s.Date + "\n" + s.Times
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EventSchedule renders start/end in loc. A same-day event gets a date line
// plus a time range; anything else gets a date range with no time of day.
func EventSchedule(start, end time.Time, loc *time.Location) Schedule {
	if start.IsZero() {
		return Schedule{Date: "Date TBA"}
	}
	if loc == nil {
		loc = time.Local
	}
	s := start.In(loc)
	if end.IsZero() {
		return Schedule{Date: s.Format(dateLayout), Times: s.Format(clockLayout)}
	}
	e := end.In(loc)
	if sameDay(s, e) {
		return Schedule{
			Date:  s.Format(dateLayout),
			Times: s.Format(clockLayout) + " – " + e.Format(clockLayout),
		}
	}
	return Schedule{Date: s.Format(shortDateLayout) + " – " + e.Format(shortDateLayout)}
}

// Relative labels a timestamp against now: minutes, hours and days up to a
// week, then the absolute date.
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	mins := int(d / time.Minute)
	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}
	return t.In(now.Location()).Format(shortDateLayout)
}

// ToLocalInput converts a server timestamp to the viewer's wall clock in
// datetime-local form.
func ToLocalInput(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(InputLayout)
}

// FromLocalInput parses a datetime-local value in loc and returns it as an
// RFC 3339 UTC string for the API.
func FromLocalInput(v string, loc *time.Location) (string, error) {
	if v == "" {
		return "", nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(InputLayout, v, loc)
	if err != nil {
		return "", fmt.Errorf("invalid date and time %q: %w", v, err)
	}
	return t.UTC().Format(time.RFC3339), nil
}
