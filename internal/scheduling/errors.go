package scheduling

import (
	"errors"
)

// Recoverable scheduling outcomes. Handlers map these to user-facing
// responses; anything else is treated as a data-store failure.
var (
	// ErrSlotConflict means the desired slot is no longer free.
	ErrSlotConflict = errors.New("time slot is already booked")
	// ErrNotAvailable means the doctor has no availability window covering
	// the requested day and time.
	ErrNotAvailable = errors.New("doctor is not available at the requested time")
	// ErrForbidden means the requester does not own the appointment and is
	// not an admin.
	ErrForbidden = errors.New("not allowed to modify this appointment")
	// ErrNotFound means the referenced appointment or doctor does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrHasInvoice means deletion is blocked by a referencing invoice.
	ErrHasInvoice = errors.New("appointment has an invoice and cannot be deleted")
)

// ValidationError reports malformed input: a bad date, a slot off the
// 30-minute grid, or an availability window ending before it starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
