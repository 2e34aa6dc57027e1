package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotify/models"
	"slotify/services/scheduling"
)

// BookingHandler exposes the booking transaction manager over HTTP.
type BookingHandler struct {
	Engine scheduling.BookingEngine
	Logger *zap.Logger
}

func NewBookingHandler(engine scheduling.BookingEngine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// CreateBooking is the only mutating entry point for new bookings. It
// always re-validates against the schedule and live booking set, whatever
// the caller's cached availability view showed.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req scheduling.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Engine.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.Engine.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings returns a practitioner's bookings in a window, optionally
// filtered by status (?status=PENDING&status=CONFIRMED).
func (h *BookingHandler) ListBookings(c *gin.Context) {
	practitionerID := c.Param("practitionerID")
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	statuses := c.QueryArray("status")

	bookings, err := h.Engine.ListBookings(c.Request.Context(), practitionerID, from, to, statuses)
	if err != nil {
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.Engine.Confirm)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, h.Engine.Cancel)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.Engine.Complete)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*models.Booking, error)) {
	booking, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// BulkCancel cancels many bookings; each id is independent and the response
// reports per-id outcomes.
func (h *BookingHandler) BulkCancel(c *gin.Context) {
	var input struct {
		BookingIDs []string `json:"bookingIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	results := h.Engine.BulkCancel(c.Request.Context(), input.BookingIDs)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// RescheduleBooking moves a booking to a new interval after full
// re-validation; the original stays untouched on failure.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var input struct {
		Interval models.Interval `json:"interval" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Engine.Reschedule(c.Request.Context(), c.Param("id"), input.Interval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
