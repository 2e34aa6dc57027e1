package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	scheduleRepo "slotify/database/repository/schedule"
	"slotify/models"
	"slotify/utils"
)

// ScheduleHandler manages a practitioner's recurring weekly availability.
type ScheduleHandler struct {
	Schedules scheduleRepo.ScheduleRepository
	Logger    *zap.Logger
}

func NewScheduleHandler(schedules scheduleRepo.ScheduleRepository, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules, Logger: logger}
}

func (h *ScheduleHandler) GetWeeklySchedule(c *gin.Context) {
	practitionerID := c.Param("practitionerID")
	entries, err := h.Schedules.GetWeekly(c.Request.Context(), practitionerID)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to fetch schedule", err.Error())
		return
	}
	if entries == nil {
		entries = []models.WeeklyAvailability{}
	}
	c.JSON(http.StatusOK, gin.H{"schedule": entries})
}

// ReplaceWeeklySchedule swaps the practitioner's entire weekly schedule.
// Edits are whole-set replacements, never incremental patches. Existing
// bookings in a now-excluded window are left untouched: schedule changes
// are not retroactive.
func (h *ScheduleHandler) ReplaceWeeklySchedule(c *gin.Context) {
	practitionerID := c.Param("practitionerID")
	var input struct {
		Schedule []models.WeeklyAvailability `json:"schedule" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	seen := make(map[int]bool, len(input.Schedule))
	for i := range input.Schedule {
		input.Schedule[i].PractitionerID = practitionerID
		if err := input.Schedule[i].Validate(); err != nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid schedule entry", err.Error())
			return
		}
		day := int(input.Schedule[i].DayOfWeek)
		if seen[day] {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid schedule", "duplicate entry for day of week")
			return
		}
		seen[day] = true
	}

	if err := h.Schedules.ReplaceWeekly(c.Request.Context(), practitionerID, input.Schedule); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to replace schedule", err.Error())
		return
	}

	h.Logger.Info("weekly schedule replaced",
		zap.String("practitionerId", practitionerID),
		zap.Int("days", len(input.Schedule)))
	c.JSON(http.StatusOK, gin.H{"schedule": input.Schedule})
}
