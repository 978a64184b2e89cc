package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"
)

// AvailabilityHandler manages a doctor's recurring weekly windows.
type AvailabilityHandler struct {
	Windows scheduling.AvailabilityStore
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(windows scheduling.AvailabilityStore) *AvailabilityHandler {
	return &AvailabilityHandler{Windows: windows}
}

// GetDoctorAvailability returns all availability windows for a doctor,
// ordered by weekday. Used by booking forms to show working days.
func (h *AvailabilityHandler) GetDoctorAvailability(c *gin.Context) {
	windows, err := h.Windows.ListWindows(c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability fetched successfully", windows)
}

// AvailabilityWindowInput is one weekday entry of a replace-all update.
type AvailabilityWindowInput struct {
	Weekday   time.Weekday `json:"weekday" binding:"min=0,max=6"`
	StartTime string       `json:"startTime" binding:"required"`
	EndTime   string       `json:"endTime" binding:"required"`
}

// ReplaceAvailabilityRequest carries the doctor's full weekly window set.
type ReplaceAvailabilityRequest struct {
	Windows []AvailabilityWindowInput `json:"windows" binding:"required,dive"`
}

// ReplaceAvailability replaces the authenticated doctor's whole window set.
// There is no per-day edit; submitting the set deletes all existing windows
// and reinserts the submitted ones in one transaction.
func (h *AvailabilityHandler) ReplaceAvailability(c *gin.Context) {
	var req ReplaceAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	seen := make(map[time.Weekday]bool)
	windows := make([]models.AvailabilityWindow, 0, len(req.Windows))
	for _, in := range req.Windows {
		start, err := scheduling.ParseTimeOfDay(in.StartTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		end, err := scheduling.ParseTimeOfDay(in.EndTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		if end <= start {
			utils.BadRequest(c, "endTime must be after startTime")
			return
		}
		if seen[in.Weekday] {
			utils.BadRequest(c, "at most one window per weekday")
			return
		}
		seen[in.Weekday] = true

		windows = append(windows, models.AvailabilityWindow{
			DoctorID:  doctorID,
			Weekday:   in.Weekday,
			StartTime: start.String(),
			EndTime:   end.String(),
		})
	}

	if err := h.Windows.Replace(doctorID, windows); err != nil {
		utils.InternalServerError(c, "Failed to update availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability updated successfully", windows)
}
