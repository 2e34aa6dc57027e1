package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotify/models"
	"slotify/services/scheduling"
)

// AvailabilityHandler serves the read-only open-slot lookup.
type AvailabilityHandler struct {
	Availability scheduling.AvailabilityProvider
	Logger       *zap.Logger
}

func NewAvailabilityHandler(availability scheduling.AvailabilityProvider, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: availability, Logger: logger}
}

// GetAvailability returns open candidate slots for a practitioner/service
// in the requested window. Responses may be briefly stale; booking creation
// re-validates, so callers simply retry with a fresh slot on conflict.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	practitionerID := c.Param("practitionerID")
	serviceID := c.Query("serviceId")
	if serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceId query parameter is required"})
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	slots, err := h.Availability.GetOpenSlots(c.Request.Context(), practitionerID, serviceID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	if slots == nil {
		slots = []models.Interval{}
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// parseWindow reads the from/to RFC 3339 query parameters. Defaults to the
// next seven days when omitted.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from, to := now, now.AddDate(0, 0, 7)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp", "details": err.Error()})
			return time.Time{}, time.Time{}, false
		}
		from = parsed.UTC()
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp", "details": err.Error()})
			return time.Time{}, time.Time{}, false
		}
		to = parsed.UTC()
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be before 'to'"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
