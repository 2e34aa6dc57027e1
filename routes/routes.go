package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotify/config"
	"slotify/handlers"
	"slotify/middleware"
	"slotify/utils"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Schedule     *handlers.ScheduleHandler
	Service      *handlers.ServiceHandler
}

// Register wires all endpoints. Availability lookup and booking creation
// are public; everything that manages a practitioner's calendar requires a
// practitioner token.
func Register(r *gin.Engine, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", utils.HealthHandler)
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	auth := middleware.PractitionerAuthMiddleware(config.AppConfig.JWTSecret)

	api := r.Group("/api")
	{
		// Public read path: open slots, already conflict-filtered.
		api.GET("/availability/:practitionerID", h.Availability.GetAvailability)

		// Public write path: the one mutating entry point for new bookings.
		api.POST("/bookings", h.Booking.CreateBooking)
		api.GET("/bookings/:id", h.Booking.GetBooking)

		// Practitioner calendar management.
		practitioner := api.Group("/practitioners/:practitionerID")
		practitioner.Use(auth)
		{
			practitioner.GET("/schedule", h.Schedule.GetWeeklySchedule)
			practitioner.PUT("/schedule", h.Schedule.ReplaceWeeklySchedule)

			practitioner.POST("/services", h.Service.CreateService)
			practitioner.GET("/services", h.Service.ListServices)
			practitioner.DELETE("/services/:serviceID", h.Service.DeactivateService)

			practitioner.GET("/bookings", h.Booking.ListBookings)
		}

		// Booking lifecycle transitions, practitioner-authenticated.
		lifecycle := api.Group("/bookings")
		lifecycle.Use(auth)
		{
			lifecycle.POST("/:id/confirm", h.Booking.ConfirmBooking)
			lifecycle.POST("/:id/cancel", h.Booking.CancelBooking)
			lifecycle.POST("/:id/complete", h.Booking.CompleteBooking)
			lifecycle.POST("/cancel-bulk", h.Booking.BulkCancel)
			lifecycle.PUT("/:id/reschedule", h.Booking.RescheduleBooking)
		}
	}
}
