package scheduling

import "fmt"

// ConflictError signals that the atomic check found an overlapping active
// booking. The engine never silently picks another slot; the caller decides
// whether to retry with a different candidate.
type ConflictError struct {
	ConflictingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested interval conflicts with booking %s", e.ConflictingID)
}

// InvalidIntervalError signals a malformed or out-of-hours candidate
// interval. Never retried by the engine.
type InvalidIntervalError struct {
	Reason string
}

func (e *InvalidIntervalError) Error() string {
	return "invalid interval: " + e.Reason
}

// NotFoundError signals a reference to a booking, service, or practitioner
// schedule that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError signals a status change the booking state machine
// does not allow.
type InvalidTransitionError struct {
	BookingID string
	From      string
	To        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.From, e.To)
}

// TransientError wraps a store failure during the critical section. The
// whole operation is safe to retry: the transaction guarantees no partial
// effect was committed.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
