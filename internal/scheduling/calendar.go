package scheduling

import (
	"clinic-app-server/internal/models"
)

// Calendar turns a doctor's recurring weekly schedule into concrete bookable
// slots for one calendar date. Results are computed from the stored windows
// on every call so they always reflect the latest schedule.
type Calendar struct {
	windows AvailabilityStore
}

// NewCalendar creates a Calendar backed by the given availability store.
func NewCalendar(windows AvailabilityStore) *Calendar {
	return &Calendar{windows: windows}
}

// CandidateSlots enumerates the doctor's slot start times for the date,
// ascending. A day without a window yields an empty list, not an error.
func (cal *Calendar) CandidateSlots(doctorID, date string) ([]TimeOfDay, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	window, err := cal.windows.WindowFor(doctorID, day.Weekday())
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, nil
	}

	return enumerateSlots(window)
}

// WindowCovers reports whether the slot falls within the doctor's window for
// the date's weekday and sits on the 30-minute grid anchored at the window
// start. This is the membership check used at reschedule time, distinct from
// full enumeration.
func (cal *Calendar) WindowCovers(doctorID, date string, slot TimeOfDay) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}

	window, err := cal.windows.WindowFor(doctorID, day.Weekday())
	if err != nil {
		return false, err
	}
	if window == nil {
		return false, nil
	}

	start, end, err := windowBounds(window)
	if err != nil {
		return false, err
	}
	return onGrid(start, slot) && slot.Add(SlotMinutes) <= end, nil
}

// enumerateSlots steps through the window in 30-minute increments, stopping
// strictly before the end time. A window with end <= start yields no slots.
func enumerateSlots(window *models.AvailabilityWindow) ([]TimeOfDay, error) {
	start, end, err := windowBounds(window)
	if err != nil {
		return nil, err
	}

	var slots []TimeOfDay
	for t := start; t.Add(SlotMinutes) <= end; t = t.Add(SlotMinutes) {
		slots = append(slots, t)
	}
	return slots, nil
}

func windowBounds(window *models.AvailabilityWindow) (start, end TimeOfDay, err error) {
	start, err = ParseTimeOfDay(window.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseTimeOfDay(window.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
