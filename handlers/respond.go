package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotify/services/scheduling"
	"slotify/utils"
)

// respondError maps the engine's error taxonomy onto HTTP statuses. All
// four kinds are terminal for the request; TransientError alone invites a
// retry of the same operation.
func respondError(c *gin.Context, err error) {
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, utils.ErrorResponse{
			Message:              "requested slot is no longer available",
			Details:              conflict.Error(),
			ConflictingBookingID: conflict.ConflictingID,
		})
		return
	}
	var invalid *scheduling.InvalidIntervalError
	if errors.As(err, &invalid) {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid interval", invalid.Reason)
		return
	}
	var notFound *scheduling.NotFoundError
	if errors.As(err, &notFound) {
		utils.JSONError(c, http.StatusNotFound, "not found", notFound.Error())
		return
	}
	var transition *scheduling.InvalidTransitionError
	if errors.As(err, &transition) {
		utils.JSONError(c, http.StatusConflict, "invalid status transition", transition.Error())
		return
	}
	var transient *scheduling.TransientError
	if errors.As(err, &transient) {
		utils.JSONError(c, http.StatusServiceUnavailable, "temporarily unavailable, retry the request", transient.Error())
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}
