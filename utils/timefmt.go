package utils

import (
	"fmt"
	"time"
)

// MinuteOfDayUTC returns the minutes elapsed since UTC midnight for t.
func MinuteOfDayUTC(t time.Time) int {
	u := t.UTC()
	return u.Hour()*60 + u.Minute()
}

// DayStartUTC truncates t to UTC midnight.
func DayStartUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatClock renders minutes-from-midnight as a 12-hour clock label,
// e.g. 690 -> "11:30 AM".
func FormatClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
