package scheduling

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

// SlotOption is one entry of a slot picker: a bookable start time, with the
// appointment's own current slot flagged during edit and reschedule flows.
type SlotOption struct {
	Slot               string `json:"slot"`
	IsCurrentSelection bool   `json:"isCurrentSelection"`
}

// Requester identifies the authenticated user an operation runs on behalf
// of. Identity is passed explicitly rather than read from ambient session
// state.
type Requester struct {
	UserID string
	Role   models.Role
}

// Scheduler enforces the appointment state machine and the conflict-free
// invariant across all mutating operations. Every mutation re-runs the
// conflict check immediately before committing; the store's uniqueness claim
// backs it up under concurrent submissions.
type Scheduler struct {
	calendar  *Calendar
	conflicts *ConflictChecker
	appts     AppointmentStore
	invoices  InvoiceChecker
	log       zerolog.Logger
	now       func() time.Time
}

// NewScheduler wires the scheduling core over its stores.
func NewScheduler(windows AvailabilityStore, appts AppointmentStore, invoices InvoiceChecker, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		calendar:  NewCalendar(windows),
		conflicts: NewConflictChecker(appts),
		appts:     appts,
		invoices:  invoices,
		log:       log,
		now:       time.Now,
	}
}

// Calendar exposes the slot calendar for read-only callers.
func (s *Scheduler) Calendar() *Calendar {
	return s.calendar
}

// ListAvailableSlots returns the doctor's open slots for the date: candidate
// slots minus taken ones. When excludeAppointmentID names an appointment on
// the same doctor and date, its current slot is always included and flagged
// as the current selection, even though it is formally taken.
func (s *Scheduler) ListAvailableSlots(doctorID, date, excludeAppointmentID string) ([]SlotOption, error) {
	candidates, err := s.calendar.CandidateSlots(doctorID, date)
	if err != nil {
		return nil, err
	}

	var current *models.Appointment
	if excludeAppointmentID != "" {
		current, err = s.appts.Get(excludeAppointmentID)
		if err != nil {
			return nil, err
		}
	}

	options := make([]SlotOption, 0, len(candidates))
	for _, slot := range candidates {
		if current != nil && current.DoctorID == doctorID && current.Date == date && current.Slot == slot.String() {
			options = append(options, SlotOption{Slot: slot.String(), IsCurrentSelection: true})
			continue
		}
		taken, err := s.conflicts.IsTaken(doctorID, date, slot, excludeAppointmentID)
		if err != nil {
			return nil, err
		}
		if !taken {
			options = append(options, SlotOption{Slot: slot.String()})
		}
	}
	return options, nil
}

// Create books a new scheduled appointment. Beyond the conflict re-check it
// also validates server-side that the slot lies within the doctor's
// availability window, rather than trusting that the submitted slot came
// from the rendered list.
func (s *Scheduler) Create(patientID, doctorID, date, slot, notes string) (*models.Appointment, error) {
	slotTime, err := ParseTimeOfDay(slot)
	if err != nil {
		return nil, err
	}

	covered, err := s.calendar.WindowCovers(doctorID, date, slotTime)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, ErrNotAvailable
	}

	taken, err := s.conflicts.IsTaken(doctorID, date, slotTime, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotConflict
	}

	appt := &models.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Slot:      slotTime.String(),
		Notes:     notes,
		Status:    models.StatusScheduled,
	}
	appt.SyncSlotClaim()

	if err := s.appts.Create(appt); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.log.Info().Str("doctor", doctorID).Str("date", date).Str("slot", slot).
				Msg("booking lost slot race")
		}
		return nil, err
	}
	return appt, nil
}

// Edit replaces an appointment's doctor, date, slot, notes and status. The
// conflict check runs only when doctor, date or slot actually changed from
// the stored values; an edit that leaves the triple alone can never conflict
// with itself.
func (s *Scheduler) Edit(appointmentID, doctorID, date, slot, notes string, status models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.appts.Get(appointmentID)
	if err != nil {
		return nil, err
	}

	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	slotTime, err := ParseTimeOfDay(slot)
	if err != nil {
		return nil, err
	}
	switch status {
	case models.StatusScheduled, models.StatusCompleted, models.StatusCancelled:
	default:
		return nil, &ValidationError{Field: "status", Message: "unknown status " + string(status)}
	}

	moved := appt.DoctorID != doctorID || appt.Date != date || appt.Slot != slotTime.String()
	if moved {
		taken, err := s.conflicts.IsTaken(doctorID, date, slotTime, appointmentID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlotConflict
		}
	}

	appt.DoctorID = doctorID
	appt.Date = date
	appt.Slot = slotTime.String()
	appt.Notes = notes
	appt.Status = status
	appt.SyncSlotClaim()

	if err := s.appts.Update(appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Reschedule moves a patient's own scheduled appointment to a new date and
// slot. The doctor and status stay unchanged. The new slot must be today or
// later, must fall within the doctor's availability window, and must be free.
func (s *Scheduler) Reschedule(appointmentID, requesterPatientID, date, slot string) (*models.Appointment, error) {
	appt, err := s.appts.Get(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != requesterPatientID {
		return nil, ErrForbidden
	}
	if appt.Status != models.StatusScheduled {
		return nil, &ValidationError{Field: "status", Message: "only scheduled appointments can be rescheduled"}
	}

	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	if date < s.now().Format(DateLayout) {
		return nil, &ValidationError{Field: "date", Message: "new date must be today or in the future"}
	}
	slotTime, err := ParseTimeOfDay(slot)
	if err != nil {
		return nil, err
	}

	covered, err := s.calendar.WindowCovers(appt.DoctorID, date, slotTime)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, ErrNotAvailable
	}

	taken, err := s.conflicts.IsTaken(appt.DoctorID, date, slotTime, appointmentID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotConflict
	}

	appt.Date = date
	appt.Slot = slotTime.String()
	appt.SyncSlotClaim()

	if err := s.appts.Update(appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel sets the appointment to cancelled, freeing its slot for rebooking.
// Allowed for the owning patient or an admin. Cancelling an appointment
// already in a terminal state is an idempotent no-op.
func (s *Scheduler) Cancel(appointmentID string, requester Requester) (*models.Appointment, error) {
	appt, err := s.appts.Get(appointmentID)
	if err != nil {
		return nil, err
	}
	if requester.Role != models.RoleAdmin && appt.PatientID != requester.UserID {
		return nil, ErrForbidden
	}
	if appt.Status.Terminal() {
		return appt, nil
	}

	appt.Status = models.StatusCancelled
	appt.SyncSlotClaim()

	if err := s.appts.Update(appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Complete marks the appointment completed and records the doctor's notes.
// Only the appointment's own doctor may complete it. Completing an
// appointment already in a terminal state is an idempotent no-op.
func (s *Scheduler) Complete(appointmentID, requesterDoctorID, notes string) (*models.Appointment, error) {
	appt, err := s.appts.Get(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != requesterDoctorID {
		return nil, ErrForbidden
	}
	if appt.Status.Terminal() {
		return appt, nil
	}

	appt.Status = models.StatusCompleted
	if notes != "" {
		appt.Notes = notes
	}
	appt.SyncSlotClaim()

	if err := s.appts.Update(appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Delete removes an appointment permanently. Blocked with ErrHasInvoice when
// an invoice references it.
func (s *Scheduler) Delete(appointmentID string) error {
	if _, err := s.appts.Get(appointmentID); err != nil {
		return err
	}

	hasInvoice, err := s.invoices.HasInvoiceFor(appointmentID)
	if err != nil {
		return err
	}
	if hasInvoice {
		return ErrHasInvoice
	}

	return s.appts.Delete(appointmentID)
}
