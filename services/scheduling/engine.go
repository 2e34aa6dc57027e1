package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "slotify/database/repository/booking"
	scheduleRepo "slotify/database/repository/schedule"
	serviceRepo "slotify/database/repository/service"
	"slotify/models"
	"slotify/utils"
)

// CreateBookingRequest carries everything needed to reserve a slot.
type CreateBookingRequest struct {
	PractitionerID string          `json:"practitionerId" binding:"required"`
	ServiceID      string          `json:"serviceId" binding:"required"`
	Interval       models.Interval `json:"interval" binding:"required"`
	ClientName     string          `json:"clientName" binding:"required"`
	ClientContact  string          `json:"clientContact"`
}

// BulkCancelResult is one id's outcome in a bulk cancellation. Each id is an
// independent unit of work; one failure never rolls back the others.
type BulkCancelResult struct {
	BookingID string `json:"bookingId"`
	Cancelled bool   `json:"cancelled"`
	Error     string `json:"error,omitempty"`
}

// Engine is the booking transaction manager: the only component that
// mutates booking state. Every write re-validates against the schedule
// store and the live booking set; the per-practitioner lock serializes the
// conflict check and the write, and the mongo transaction (when enabled)
// keeps them from committing partially.
type Engine struct {
	Bookings  bookingRepo.BookingRepository
	Schedules scheduleRepo.ScheduleRepository
	Services  serviceRepo.ServiceRepository
	Locker    PractitionerLocker
	Logger    *zap.Logger

	// BufferMinutes is the mandatory gap appended after each booking when
	// validating against working hours.
	BufferMinutes int
	// AutoConfirm creates bookings directly in CONFIRMED status.
	AutoConfirm bool
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateBooking validates the candidate interval (fail fast, each failure
// terminal) and commits it atomically. On conflict the caller gets the
// conflicting booking's id; the engine never picks another slot.
func (e *Engine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	svc, err := e.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, &TransientError{Op: "fetch service", Err: err}
	}
	if svc == nil {
		return nil, &NotFoundError{Resource: "service", ID: req.ServiceID}
	}
	if !svc.IsActive {
		return nil, &InvalidIntervalError{Reason: "service " + svc.ID + " is no longer offered"}
	}
	if svc.PractitionerID != req.PractitionerID {
		return nil, &InvalidIntervalError{Reason: "service does not belong to practitioner"}
	}

	if err := e.validateInterval(ctx, req.PractitionerID, req.Interval, svc.DurationMinutes); err != nil {
		return nil, err
	}

	release, err := e.Locker.Acquire(ctx, req.PractitionerID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := e.now()
	status := models.StatusPending
	if e.AutoConfirm {
		status = models.StatusConfirmed
	}
	booking := &models.Booking{
		ID:             uuid.New().String(),
		PractitionerID: req.PractitionerID,
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientContact:  req.ClientContact,
		Start:          req.Interval.Start.UTC(),
		End:            req.Interval.End.UTC(),
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := e.Bookings.InsertIfNoOverlap(ctx, booking); err != nil {
		return nil, e.mapWriteErr("booking insert", "", err)
	}

	e.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("practitionerId", booking.PractitionerID),
		zap.Time("start", booking.Start),
		zap.String("status", booking.Status))
	return booking, nil
}

// validateInterval runs the pre-lock validation steps: well-formed, not in
// the past, length matching the service duration, and inside working hours
// with the trailing buffer honored. Each failure is terminal.
func (e *Engine) validateInterval(ctx context.Context, practitionerID string, iv models.Interval, durationMinutes int) error {
	if err := iv.Validate(); err != nil {
		return &InvalidIntervalError{Reason: err.Error()}
	}
	if iv.Start.Before(e.now()) {
		return &InvalidIntervalError{Reason: "interval starts in the past"}
	}
	if iv.Duration() != time.Duration(durationMinutes)*time.Minute {
		return &InvalidIntervalError{Reason: "interval length must equal the service duration"}
	}

	entry, err := e.Schedules.GetForDay(ctx, practitionerID, iv.Start.UTC().Weekday())
	if err != nil {
		return &TransientError{Op: "fetch schedule", Err: err}
	}
	if entry == nil {
		return &InvalidIntervalError{Reason: "outside working hours: practitioner is off that day"}
	}

	startMin := utils.MinuteOfDayUTC(iv.Start)
	endMin := startMin + int(iv.Duration().Minutes()) + e.BufferMinutes
	if !entry.Contains(startMin, endMin) {
		return &InvalidIntervalError{Reason: fmt.Sprintf("outside working hours: %s to %s is not bookable",
			utils.FormatClock(startMin), utils.FormatClock(endMin))}
	}
	return nil
}

// GetBooking fetches one booking by id.
func (e *Engine) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := e.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, &TransientError{Op: "fetch booking", Err: err}
	}
	return booking, nil
}

// ListBookings returns a practitioner's bookings overlapping the window,
// optionally filtered by status.
func (e *Engine) ListBookings(ctx context.Context, practitionerID string, windowStart, windowEnd time.Time, statuses []string) ([]models.Booking, error) {
	bookings, err := e.Bookings.ListByPractitioner(ctx, practitionerID, windowStart, windowEnd, statuses)
	if err != nil {
		return nil, &TransientError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

// Confirm moves a PENDING booking to CONFIRMED.
func (e *Engine) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	return e.transition(ctx, id, models.StatusConfirmed)
}

// Cancel releases a PENDING or CONFIRMED booking's time.
func (e *Engine) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	return e.transition(ctx, id, models.StatusCancelled)
}

// Complete marks a CONFIRMED booking as carried out.
func (e *Engine) Complete(ctx context.Context, id string) (*models.Booking, error) {
	return e.transition(ctx, id, models.StatusCompleted)
}

func (e *Engine) transition(ctx context.Context, id, target string) (*models.Booking, error) {
	booking, err := e.Bookings.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, e.mapWriteErr("status transition", id, err)
	}
	e.Logger.Info("booking status changed",
		zap.String("bookingId", booking.ID),
		zap.String("status", booking.Status))
	return booking, nil
}

// BulkCancel cancels each id independently. A missing or non-cancellable id
// is reported in its own result and does not affect the others.
func (e *Engine) BulkCancel(ctx context.Context, ids []string) []BulkCancelResult {
	results := make([]BulkCancelResult, 0, len(ids))
	for _, id := range ids {
		res := BulkCancelResult{BookingID: id}
		if _, err := e.Cancel(ctx, id); err != nil {
			res.Error = err.Error()
		} else {
			res.Cancelled = true
		}
		results = append(results, res)
	}
	return results
}

// Reschedule validates the new interval exactly like a creation (against
// all other bookings) and atomically updates start/end; on any failure the
// original booking is untouched.
func (e *Engine) Reschedule(ctx context.Context, id string, newInterval models.Interval) (*models.Booking, error) {
	current, err := e.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsActive() {
		return nil, &InvalidTransitionError{BookingID: id, From: current.Status, To: current.Status}
	}

	durationMinutes := int(current.Interval().Duration().Minutes())
	if err := e.validateInterval(ctx, current.PractitionerID, newInterval, durationMinutes); err != nil {
		return nil, err
	}

	release, err := e.Locker.Acquire(ctx, current.PractitionerID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := e.Bookings.UpdateTimesIfNoOverlap(ctx, id, newInterval.Start.UTC(), newInterval.End.UTC())
	if err != nil {
		return nil, e.mapWriteErr("booking reschedule", id, err)
	}

	e.Logger.Info("booking rescheduled",
		zap.String("bookingId", updated.ID),
		zap.Time("start", updated.Start),
		zap.Time("end", updated.End))
	return updated, nil
}

// CompletePastBookings is the sweeper entry point: CONFIRMED bookings whose
// end has passed become COMPLETED.
func (e *Engine) CompletePastBookings(ctx context.Context) (int64, error) {
	n, err := e.Bookings.MarkCompletedBefore(ctx, e.now())
	if err != nil {
		return 0, &TransientError{Op: "completion sweep", Err: err}
	}
	if n > 0 {
		e.Logger.Info("completed past bookings", zap.Int64("count", n))
	}
	return n, nil
}

// mapWriteErr translates repository errors into the engine's taxonomy.
// Anything unrecognized is a retryable store failure.
func (e *Engine) mapWriteErr(op, id string, err error) error {
	var overlap *bookingRepo.OverlapError
	if errors.As(err, &overlap) {
		return &ConflictError{ConflictingID: overlap.ConflictingID}
	}
	var transition *bookingRepo.TransitionError
	if errors.As(err, &transition) {
		return &InvalidTransitionError{BookingID: transition.BookingID, From: transition.Current, To: transition.Target}
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return &NotFoundError{Resource: "booking", ID: id}
	}
	return &TransientError{Op: op, Err: err}
}
