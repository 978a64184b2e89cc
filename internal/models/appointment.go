package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a booked 30-minute visit. Date is stored as
// "YYYY-MM-DD" and Slot as "HH:MM", the slot's start time of day.
//
// SlotClaim holds "doctorID|date|slot" while the appointment is scheduled and
// is NULL otherwise. The unique index on it guarantees at most one scheduled
// appointment per (doctor, date, slot) even under concurrent bookings; the
// application-level conflict check only narrows the race window.
type Appointment struct {
	BaseModel
	PatientID string            `gorm:"size:36;index" json:"patientId"`
	DoctorID  string            `gorm:"size:36;index" json:"doctorId"`
	Date      string            `gorm:"size:10;index" json:"date"`
	Slot      string            `gorm:"size:5" json:"slot"`
	Notes     string            `gorm:"type:text" json:"notes"`
	Status    AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	SlotClaim *string           `gorm:"size:64;uniqueIndex" json:"-"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

// ClaimKey builds the uniqueness key occupied by a scheduled appointment.
func ClaimKey(doctorID, date, slot string) string {
	return doctorID + "|" + date + "|" + slot
}

// SyncSlotClaim recomputes SlotClaim from the current doctor/date/slot/status.
func (a *Appointment) SyncSlotClaim() {
	if a.Status == StatusScheduled {
		key := ClaimKey(a.DoctorID, a.Date, a.Slot)
		a.SlotClaim = &key
	} else {
		a.SlotClaim = nil
	}
}
