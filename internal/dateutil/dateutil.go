package dateutil

import (
	"time"
)

const DayLayout = "2006-01-02"

// DayUTC truncates t to midnight of its UTC calendar day. Slot identity is
// defined on the UTC day, never on the caller's local day.
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func DayString(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}

// ParseDate accepts either a bare day ("2006-01-02") or a full RFC 3339
// timestamp and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := ParseDay(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ValidClock reports whether s is a well-formed "HH:MM" label.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

// Combine anchors an "HH:MM" label onto the UTC calendar day of day.
func Combine(day time.Time, clock string) time.Time {
	t, _ := time.Parse("15:04", clock)
	d := DayUTC(day)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// Clock returns the "HH:MM" label of t's UTC time of day.
func Clock(t time.Time) string {
	return t.UTC().Format("15:04")
}
