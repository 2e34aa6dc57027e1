package models

import "time"

// Booking statuses. Only PENDING and CONFIRMED bookings participate in
// conflict checks; CANCELLED and COMPLETED are inert for scheduling.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// ActiveStatuses are the statuses that hold a practitioner's time.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// Booking represents a reserved interval for a practitioner. Start and End
// are absolute UTC timestamps; End is fixed at creation as
// Start + service duration and only changes through a reschedule.
type Booking struct {
	ID             string    `bson:"id" json:"id"`
	PractitionerID string    `bson:"practitionerId" json:"practitionerId"`
	ServiceID      string    `bson:"serviceId" json:"serviceId"`
	ClientName     string    `bson:"clientName" json:"clientName"`
	ClientContact  string    `bson:"clientContact" json:"clientContact"`
	Start          time.Time `bson:"start" json:"start"`
	End            time.Time `bson:"end" json:"end"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Interval returns the booking's occupied time range.
func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// IsActive reports whether the booking still holds its time.
func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// statusTransitions is the booking state machine. CANCELLED and COMPLETED
// are terminal.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionSources returns the statuses a booking may hold before moving
// to the given target status.
func TransitionSources(to string) []string {
	var sources []string
	for from, targets := range statusTransitions {
		for _, t := range targets {
			if t == to {
				sources = append(sources, from)
			}
		}
	}
	return sources
}
