package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotify/models"
)

// ErrNotFound is returned when a booking id does not exist.
var ErrNotFound = errors.New("booking not found")

// OverlapError reports that an active booking already occupies part of the
// requested interval. The conflicting booking's id is always carried so the
// caller can surface it.
type OverlapError struct {
	ConflictingID string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("interval overlaps active booking %s", e.ConflictingID)
}

// TransitionError reports a status change the state machine does not allow
// from the booking's current status.
type TransitionError struct {
	BookingID string
	Current   string
	Target    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.Current, e.Target)
}

// BookingRepository persists bookings and owns the atomic conflict-checked
// writes. It is the only component allowed to mutate booking rows.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// ListActiveInWindow returns PENDING/CONFIRMED bookings for the
	// practitioner whose interval overlaps [windowStart, windowEnd),
	// ordered by start. The overlap filter (not a same-day filter) catches
	// bookings spilling across day boundaries.
	ListActiveInWindow(ctx context.Context, practitionerID string, windowStart, windowEnd time.Time) ([]models.Booking, error)

	// ListByPractitioner returns bookings in a window with an optional
	// status filter (nil means all statuses).
	ListByPractitioner(ctx context.Context, practitionerID string, windowStart, windowEnd time.Time, statuses []string) ([]models.Booking, error)

	// InsertIfNoOverlap atomically re-checks the conflict predicate against
	// the live active set and inserts the booking only when clear. Returns
	// *OverlapError when an active booking overlaps.
	InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error

	// UpdateTimesIfNoOverlap atomically moves a booking to a new interval,
	// checking conflicts against all other active bookings. The original
	// row is untouched on failure.
	UpdateTimesIfNoOverlap(ctx context.Context, bookingID string, newStart, newEnd time.Time) (*models.Booking, error)

	// UpdateStatus performs a guarded state transition. Returns ErrNotFound
	// for unknown ids and *TransitionError when the current status does not
	// permit the move.
	UpdateStatus(ctx context.Context, id string, target string) (*models.Booking, error)

	// MarkCompletedBefore flips CONFIRMED bookings that ended at or before
	// cutoff to COMPLETED and returns how many rows changed.
	MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	EnsureIndexes() error
}
