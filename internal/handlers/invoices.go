package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// InvoiceHandler handles invoice creation and payment tracking. An invoice
// pins its appointment: invoiced appointments can no longer be deleted.
type InvoiceHandler struct {
	DB *gorm.DB
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{DB: db}
}

// CreateInvoiceRequest represents the request body for issuing an invoice.
type CreateInvoiceRequest struct {
	AppointmentID string  `json:"appointmentId" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// CreateInvoice issues an invoice for an appointment (admin). One invoice
// per appointment.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var existing models.Invoice
	if err := h.DB.Where("appointment_id = ?", req.AppointmentID).First(&existing).Error; err == nil {
		utils.Conflict(c, "Appointment already has an invoice.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	invoice := models.Invoice{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Amount:        req.Amount,
		Status:        models.InvoiceUnpaid,
		IssuedAt:      time.Now(),
	}
	if err := h.DB.Create(&invoice).Error; err != nil {
		utils.InternalServerError(c, "Failed to create invoice: "+err.Error())
		return
	}

	utils.Created(c, "Invoice created successfully", invoice)
}

// GetInvoicesForUser lists invoices: patients see their own, admins see all.
func (h *InvoiceHandler) GetInvoicesForUser(c *gin.Context) {
	userID, userRole, ok := middleware.RequesterFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Preload("Appointment").Order("issued_at desc")

	var invoices []models.Invoice
	var err error
	switch userRole {
	case models.RoleAdmin:
		err = query.Find(&invoices).Error
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&invoices).Error
	default:
		utils.Forbidden(c, "User role not permitted to view invoices")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch invoices: "+err.Error())
		return
	}

	utils.Success(c, "Invoices fetched successfully", invoices)
}

// GetInvoiceByID fetches one invoice, for the billed patient or an admin.
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	var invoice models.Invoice
	if err := h.DB.Preload("Appointment").First(&invoice, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, userRole, _ := middleware.RequesterFromContext(c)
	if userRole != models.RoleAdmin && userID != invoice.PatientID {
		utils.Forbidden(c, "You are not authorized to view this invoice")
		return
	}

	utils.Success(c, "Invoice fetched successfully", invoice)
}

// MarkInvoicePaid marks an invoice as paid (admin).
func (h *InvoiceHandler) MarkInvoicePaid(c *gin.Context) {
	var invoice models.Invoice
	if err := h.DB.First(&invoice, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	invoice.Status = models.InvoicePaid
	if err := h.DB.Save(&invoice).Error; err != nil {
		utils.InternalServerError(c, "Failed to update invoice: "+err.Error())
		return
	}

	utils.Success(c, "Invoice marked as paid", invoice)
}
