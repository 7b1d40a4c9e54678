package gateway

import (
	"fmt"
	"strings"
	"time"
)

// Date-times cross the API as DD/MM/YYYY HH:MM[:SS] in the backend's local zone.
const (
	DateTimeLayout        = "02/01/2006 15:04:05"
	dateTimeLayoutMinutes = "02/01/2006 15:04"
)

// ParseDateTime reads a backend date-time in loc. Seconds are optional and a
// comma after the date ("16/10/2026, 14:03:00") is tolerated.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	v := strings.TrimSpace(strings.Replace(s, ",", "", 1))
	if t, err := time.ParseInLocation(DateTimeLayout, v, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateTimeLayoutMinutes, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("gateway: invalid date-time %q: %w", s, err)
	}
	return t, nil
}

// FormatDateTime writes t in the backend format, to the second.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLayout)
}
