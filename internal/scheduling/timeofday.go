package scheduling

import (
	"fmt"
	"time"
)

// SlotMinutes is the fixed appointment slot length.
const SlotMinutes = 30

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const clockLayout = "15:04"

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a "HH:MM" 24h clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, &ValidationError{Field: "slot", Message: fmt.Sprintf("invalid time of day %q, expected HH:MM", s)}
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted forward by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s)}
	}
	return d, nil
}

// onGrid reports whether slot sits on the 30-minute grid anchored at start.
func onGrid(start, slot TimeOfDay) bool {
	return slot >= start && (slot-start)%SlotMinutes == 0
}
