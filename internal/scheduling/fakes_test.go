package scheduling

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-app-server/internal/models"
)

// fakeWindows is an in-memory AvailabilityStore.
type fakeWindows struct {
	byDoctor map[string]map[time.Weekday]models.AvailabilityWindow
}

func newFakeWindows() *fakeWindows {
	return &fakeWindows{byDoctor: make(map[string]map[time.Weekday]models.AvailabilityWindow)}
}

func (f *fakeWindows) set(doctorID string, weekday time.Weekday, start, end string) {
	if f.byDoctor[doctorID] == nil {
		f.byDoctor[doctorID] = make(map[time.Weekday]models.AvailabilityWindow)
	}
	f.byDoctor[doctorID][weekday] = models.AvailabilityWindow{
		DoctorID: doctorID, Weekday: weekday, StartTime: start, EndTime: end,
	}
}

func (f *fakeWindows) WindowFor(doctorID string, weekday time.Weekday) (*models.AvailabilityWindow, error) {
	w, ok := f.byDoctor[doctorID][weekday]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (f *fakeWindows) ListWindows(doctorID string) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w, ok := f.byDoctor[doctorID][d]; ok {
			windows = append(windows, w)
		}
	}
	return windows, nil
}

func (f *fakeWindows) Replace(doctorID string, windows []models.AvailabilityWindow) error {
	f.byDoctor[doctorID] = make(map[time.Weekday]models.AvailabilityWindow)
	for _, w := range windows {
		f.byDoctor[doctorID][w.Weekday] = w
	}
	return nil
}

// fakeAppointments is an in-memory AppointmentStore that enforces the
// scheduled-slot uniqueness claim under a mutex, mirroring the unique index
// the MySQL store relies on.
type fakeAppointments struct {
	mu             sync.Mutex
	byID           map[string]models.Appointment
	conflictChecks int
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{byID: make(map[string]models.Appointment)}
}

func (f *fakeAppointments) Get(id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &appt, nil
}

func (f *fakeAppointments) CountScheduled(doctorID, date, slot, excludeID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conflictChecks++
	var count int64
	for _, a := range f.byID {
		if a.Status == models.StatusScheduled &&
			a.DoctorID == doctorID && a.Date == date && a.Slot == slot &&
			a.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAppointments) claimTaken(appt *models.Appointment) bool {
	if appt.SlotClaim == nil {
		return false
	}
	for _, other := range f.byID {
		if other.ID != appt.ID && other.SlotClaim != nil && *other.SlotClaim == *appt.SlotClaim {
			return true
		}
	}
	return false
}

func (f *fakeAppointments) Create(appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if f.claimTaken(appt) {
		return ErrSlotConflict
	}
	f.byID[appt.ID] = *appt
	return nil
}

func (f *fakeAppointments) Update(appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimTaken(appt) {
		return ErrSlotConflict
	}
	f.byID[appt.ID] = *appt
	return nil
}

func (f *fakeAppointments) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

// fakeInvoices is an in-memory InvoiceChecker.
type fakeInvoices struct {
	invoiced map[string]bool
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{invoiced: make(map[string]bool)}
}

func (f *fakeInvoices) HasInvoiceFor(appointmentID string) (bool, error) {
	return f.invoiced[appointmentID], nil
}
