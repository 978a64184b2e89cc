package scheduling

import (
	"time"

	"clinic-app-server/internal/models"
)

// AvailabilityStore persists a doctor's recurring weekly windows.
type AvailabilityStore interface {
	// WindowFor returns the doctor's window for the weekday, or nil when the
	// doctor does not work that day.
	WindowFor(doctorID string, weekday time.Weekday) (*models.AvailabilityWindow, error)
	// ListWindows returns all windows for the doctor, ordered by weekday.
	ListWindows(doctorID string) ([]models.AvailabilityWindow, error)
	// Replace swaps the doctor's whole window set in one transaction.
	Replace(doctorID string, windows []models.AvailabilityWindow) error
}

// AppointmentStore persists appointments. Create and Update must return
// ErrSlotConflict when the scheduled-slot uniqueness claim collides, so the
// at-most-one-scheduled invariant holds even when two requests pass the
// application-level conflict check at the same time.
type AppointmentStore interface {
	// Get returns the appointment or ErrNotFound.
	Get(id string) (*models.Appointment, error)
	// CountScheduled counts scheduled appointments at (doctor, date, slot),
	// skipping excludeID when non-empty.
	CountScheduled(doctorID, date, slot, excludeID string) (int64, error)
	Create(appt *models.Appointment) error
	Update(appt *models.Appointment) error
	Delete(id string) error
}

// InvoiceChecker answers whether an appointment is referenced by an invoice.
type InvoiceChecker interface {
	HasInvoiceFor(appointmentID string) (bool, error)
}
