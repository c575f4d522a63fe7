package utils

import "time"

// DateLayout is the calendar-day key used across the API.
const DateLayout = "2006-01-02"

func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}

// DateKey formats t as a calendar day in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDay accepts either YYYY-MM-DD (midnight in loc) or RFC 3339.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
