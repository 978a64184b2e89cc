package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// SpecialtyHandler handles specialty management (admin) and listing.
type SpecialtyHandler struct {
	DB *gorm.DB
}

// NewSpecialtyHandler creates a new SpecialtyHandler.
func NewSpecialtyHandler(db *gorm.DB) *SpecialtyHandler {
	return &SpecialtyHandler{DB: db}
}

// SpecialtyRequest represents the request body for creating or updating a specialty.
type SpecialtyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetSpecialties lists all specialties.
func (h *SpecialtyHandler) GetSpecialties(c *gin.Context) {
	var specialties []models.Specialty
	if err := h.DB.Order("name asc").Find(&specialties).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch specialties: "+err.Error())
		return
	}
	utils.Success(c, "Specialties fetched successfully", specialties)
}

// CreateSpecialty creates a specialty (admin).
func (h *SpecialtyHandler) CreateSpecialty(c *gin.Context) {
	var req SpecialtyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	specialty := models.Specialty{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&specialty).Error; err != nil {
		utils.InternalServerError(c, "Failed to create specialty: "+err.Error())
		return
	}

	utils.Created(c, "Specialty created successfully", specialty)
}

// UpdateSpecialty updates a specialty (admin).
func (h *SpecialtyHandler) UpdateSpecialty(c *gin.Context) {
	var req SpecialtyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Specialty not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	specialty.Name = req.Name
	specialty.Description = req.Description
	if err := h.DB.Save(&specialty).Error; err != nil {
		utils.InternalServerError(c, "Failed to update specialty: "+err.Error())
		return
	}

	utils.Success(c, "Specialty updated successfully", specialty)
}

// DeleteSpecialty deletes a specialty (admin). Blocked while doctors are
// still assigned to it.
func (h *SpecialtyHandler) DeleteSpecialty(c *gin.Context) {
	specialtyID := c.Param("id")

	var assigned int64
	if err := h.DB.Model(&models.User{}).Where("specialty_id = ?", specialtyID).Count(&assigned).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if assigned > 0 {
		utils.Conflict(c, "Specialty is still assigned to doctors and cannot be deleted.")
		return
	}

	if err := h.DB.Delete(&models.Specialty{}, "id = ?", specialtyID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete specialty: "+err.Error())
		return
	}

	utils.Success(c, "Specialty deleted successfully", nil)
}
