package scheduling

// ConflictChecker decides whether a (doctor, date, slot) triple is occupied
// by an active appointment. Only scheduled appointments occupy a slot;
// cancelled ones become rebookable immediately and completed ones are
// historical.
type ConflictChecker struct {
	appts AppointmentStore
}

// NewConflictChecker creates a ConflictChecker over the appointment store.
func NewConflictChecker(appts AppointmentStore) *ConflictChecker {
	return &ConflictChecker{appts: appts}
}

// IsTaken reports whether a scheduled appointment other than excludeID
// occupies the exact (doctor, date, slot). excludeID lets an appointment
// being edited or rescheduled see past itself; pass "" for none.
func (cc *ConflictChecker) IsTaken(doctorID, date string, slot TimeOfDay, excludeID string) (bool, error) {
	count, err := cc.appts.CountScheduled(doctorID, date, slot.String(), excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
