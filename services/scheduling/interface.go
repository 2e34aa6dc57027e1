package scheduling

import (
	"context"
	"time"

	"slotify/models"
)

// BookingEngine is the boundary handlers depend on for all booking writes.
type BookingEngine interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, practitionerID string, windowStart, windowEnd time.Time, statuses []string) ([]models.Booking, error)
	Confirm(ctx context.Context, id string) (*models.Booking, error)
	Cancel(ctx context.Context, id string) (*models.Booking, error)
	Complete(ctx context.Context, id string) (*models.Booking, error)
	BulkCancel(ctx context.Context, ids []string) []BulkCancelResult
	Reschedule(ctx context.Context, id string, newInterval models.Interval) (*models.Booking, error)
	CompletePastBookings(ctx context.Context) (int64, error)
}

// AvailabilityProvider is the read-only slot lookup boundary.
type AvailabilityProvider interface {
	GetOpenSlots(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error)
}

var (
	_ BookingEngine        = (*Engine)(nil)
	_ AvailabilityProvider = (*Availability)(nil)
)
