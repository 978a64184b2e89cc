package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"
)

// In-memory stores so the handler can be exercised without a database.
// Create/GetAppointmentsForUser go through gorm and are covered elsewhere.

type memWindows struct {
	windows map[time.Weekday]models.AvailabilityWindow
}

func (m *memWindows) WindowFor(doctorID string, weekday time.Weekday) (*models.AvailabilityWindow, error) {
	w, ok := m.windows[weekday]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (m *memWindows) ListWindows(doctorID string) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range m.windows {
		out = append(out, w)
	}
	return out, nil
}

func (m *memWindows) Replace(doctorID string, windows []models.AvailabilityWindow) error {
	m.windows = make(map[time.Weekday]models.AvailabilityWindow)
	for _, w := range windows {
		m.windows[w.Weekday] = w
	}
	return nil
}

type memAppointments struct {
	mu   sync.Mutex
	byID map[string]models.Appointment
}

func (m *memAppointments) Get(id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, scheduling.ErrNotFound
	}
	return &a, nil
}

func (m *memAppointments) CountScheduled(doctorID, date, slot, excludeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.byID {
		if a.Status == models.StatusScheduled && a.DoctorID == doctorID &&
			a.Date == date && a.Slot == slot && a.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (m *memAppointments) Create(appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	m.byID[appt.ID] = *appt
	return nil
}

func (m *memAppointments) Update(appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[appt.ID] = *appt
	return nil
}

func (m *memAppointments) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memInvoices struct{ invoiced map[string]bool }

func (m *memInvoices) HasInvoiceFor(appointmentID string) (bool, error) {
	return m.invoiced[appointmentID], nil
}

// testAuth stands in for AuthMiddleware with a fixed identity.
func testAuth(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}

func newTestRouter(t *testing.T, appts *memAppointments, userID string, role models.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	windows := &memWindows{windows: map[time.Weekday]models.AvailabilityWindow{
		time.Monday: {DoctorID: "doc-1", Weekday: time.Monday, StartTime: "09:00", EndTime: "10:00"},
	}}
	scheduler := scheduling.NewScheduler(windows, appts, &memInvoices{invoiced: map[string]bool{}}, zerolog.Nop())
	handler := NewAppointmentHandler(nil, scheduler)

	router := gin.New()
	group := router.Group("/appointments", testAuth(userID, role))
	group.GET("/slots", handler.ListAvailableSlots)
	group.PATCH("/:id/reschedule", handler.RescheduleAppointment)
	group.PATCH("/:id/cancel", handler.CancelAppointment)
	group.DELETE("/:id", handler.DeleteAppointment)
	return router
}

// nextMonday returns the first Monday at least a week out, so reschedule
// dates are always in the future.
func nextMonday() time.Time {
	d := time.Now().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func scheduledAppointment(appts *memAppointments, patientID string) models.Appointment {
	appt := models.Appointment{
		PatientID: patientID,
		DoctorID:  "doc-1",
		Date:      nextMonday().Format(scheduling.DateLayout),
		Slot:      "09:00",
		Status:    models.StatusScheduled,
	}
	appt.SyncSlotClaim()
	_ = appts.Create(&appt)
	return appt
}

func TestListAvailableSlotsEndpoint(t *testing.T) {
	appts := &memAppointments{byID: map[string]models.Appointment{}}
	router := newTestRouter(t, appts, "pat-1", models.RolePatient)

	w := httptest.NewRecorder()
	date := nextMonday().Format(scheduling.DateLayout)
	req := httptest.NewRequest(http.MethodGet, "/appointments/slots?doctorId=doc-1&date="+date, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp utils.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var options []scheduling.SlotOption
	require.NoError(t, json.Unmarshal(data, &options))
	require.Len(t, options, 2)
	assert.Equal(t, "09:00", options[0].Slot)
	assert.Equal(t, "09:30", options[1].Slot)
}

func TestListAvailableSlotsMissingParams(t *testing.T) {
	appts := &memAppointments{byID: map[string]models.Appointment{}}
	router := newTestRouter(t, appts, "pat-1", models.RolePatient)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/slots?doctorId=doc-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRescheduleEndpointForbiddenForOtherPatient(t *testing.T) {
	appts := &memAppointments{byID: map[string]models.Appointment{}}
	appt := scheduledAppointment(appts, "pat-1")
	router := newTestRouter(t, appts, "pat-2", models.RolePatient)

	w := httptest.NewRecorder()
	target := nextMonday().AddDate(0, 0, 7).Format(scheduling.DateLayout)
	body := `{"date":"` + target + `","slot":"09:30"}`
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+appt.ID+"/reschedule", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRescheduleEndpointOutsideWindow(t *testing.T) {
	appts := &memAppointments{byID: map[string]models.Appointment{}}
	appt := scheduledAppointment(appts, "pat-1")
	router := newTestRouter(t, appts, "pat-1", models.RolePatient)

	w := httptest.NewRecorder()
	// The day after a Monday has no availability window.
	target := nextMonday().AddDate(0, 0, 1).Format(scheduling.DateLayout)
	body := `{"date":"` + target + `","slot":"09:00"}`
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+appt.ID+"/reschedule", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCancelEndpointAsAdmin(t *testing.T) {
	appts := &memAppointments{byID: map[string]models.Appointment{}}
	appt := scheduledAppointment(appts, "pat-1")
	router := newTestRouter(t, appts, "admin-1", models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+appt.ID+"/cancel", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	stored, err := appts.Get(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
}

func TestDeleteEndpointNotFound(t *testing.T) {
	appts := &memAppointments{byID: map[string]models.Appointment{}}
	router := newTestRouter(t, appts, "admin-1", models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/appointments/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
