package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler exposes the scheduling core over HTTP. All slot and
// lifecycle rules live in the scheduling package; this layer only binds
// input, resolves the requester and maps errors to responses.
type AppointmentHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Scheduler
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduler *scheduling.Scheduler) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduler: scheduler}
}

// respondSchedulingError maps the scheduling error taxonomy onto the JSON
// envelope. Anything outside the taxonomy is a data-store failure.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrSlotConflict):
		utils.Conflict(c, "This time slot is already booked. Please choose another slot.")
	case errors.Is(err, scheduling.ErrNotAvailable):
		utils.UnprocessableEntity(c, "The doctor is not available at the requested date and time.")
	case errors.Is(err, scheduling.ErrForbidden):
		utils.Forbidden(c, "You are not allowed to perform this action on the appointment.")
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, "Appointment not found")
	case errors.Is(err, scheduling.ErrHasInvoice):
		utils.Conflict(c, "The appointment has an invoice and cannot be deleted.")
	case scheduling.IsValidation(err):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}

// ListAvailableSlots returns the open slots for a doctor and date, for the
// booking, edit and reschedule pickers. The optional exclude parameter names
// an appointment whose own slot stays selectable.
func (h *AppointmentHandler) ListAvailableSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		utils.BadRequest(c, "doctorId and date query parameters are required")
		return
	}

	options, err := h.Scheduler.ListAvailableSlots(doctorID, date, c.Query("exclude"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", options)
}

// CreateAppointmentRequest represents the request body for booking.
type CreateAppointmentRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	PatientID string `json:"patientId" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	Slot      string `json:"slot" binding:"required"`
	Notes     string `json:"notes"`
}

// CreateAppointment books a new appointment. Patients book for themselves;
// admins may book on behalf of any patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	requesterID, requesterRole, ok := middleware.RequesterFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if requesterRole == models.RolePatient && requesterID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	// Verify doctor exists and is a doctor
	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	// Verify patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	appointment, err := h.Scheduler.Create(req.PatientID, req.DoctorID, req.Date, req.Slot, req.Notes)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser fetches appointments for the logged-in user.
// Patients see their own, doctors their schedule, admins everything.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, userRole, ok := middleware.RequesterFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Preload("Patient").Preload("Doctor").Order("date asc, slot asc")

	var appointments []models.Appointment
	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment. Accessible by the
// involved patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, userRole, _ := middleware.RequesterFromContext(c)
	if userRole != models.RoleAdmin && userID != appointment.PatientID && userID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// EditAppointmentRequest represents the admin edit body. The stored values
// the UI rendered must be resent so unchanged triples skip the conflict
// check.
type EditAppointmentRequest struct {
	DoctorID string                   `json:"doctorId" binding:"required,uuid"`
	Date     string                   `json:"date" binding:"required"`
	Slot     string                   `json:"slot" binding:"required"`
	Notes    string                   `json:"notes"`
	Status   models.AppointmentStatus `json:"status" binding:"required,oneof=scheduled completed cancelled"`
}

// EditAppointment lets an admin change doctor, date, slot, notes and status
// freely.
func (h *AppointmentHandler) EditAppointment(c *gin.Context) {
	var req EditAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Scheduler.Edit(c.Param("id"), req.DoctorID, req.Date, req.Slot, req.Notes, req.Status)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// RescheduleAppointmentRequest represents the patient reschedule body.
type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Slot string `json:"slot" binding:"required"`
}

// RescheduleAppointment moves a patient's own scheduled appointment to a new
// date and slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appointment, err := h.Scheduler.Reschedule(c.Param("id"), patientID, req.Date, req.Slot)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// CancelAppointment cancels an appointment on behalf of the owning patient
// or an admin. The slot becomes rebookable immediately.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	userID, userRole, ok := middleware.RequesterFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appointment, err := h.Scheduler.Cancel(c.Param("id"), scheduling.Requester{UserID: userID, Role: userRole})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// CompleteAppointmentRequest carries the doctor's closing notes.
type CompleteAppointmentRequest struct {
	Notes string `json:"notes"`
}

// CompleteAppointment marks an appointment completed with the doctor's notes.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	var req CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appointment, err := h.Scheduler.Complete(c.Param("id"), doctorID, req.Notes)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment completed successfully", appointment)
}

// DeleteAppointment removes an appointment permanently. Blocked when an
// invoice references it.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.Scheduler.Delete(c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}
