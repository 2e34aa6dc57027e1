package scheduling

import "slotify/models"

// HasConflict reports whether candidate overlaps any existing interval under
// half-open [start, end) semantics: a.start < b.end AND a.end > b.start.
// Callers must supply only active (PENDING/CONFIRMED) bookings fetched for
// an overlapping window, never a same-day pre-filter. Zero-duration and
// inverted candidates are rejected upstream and never reach here.
func HasConflict(candidate models.Interval, existing []models.Interval) bool {
	for _, iv := range existing {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}

// FindConflict returns the first active booking whose interval overlaps the
// candidate, or nil when the candidate is clear.
func FindConflict(candidate models.Interval, bookings []models.Booking) *models.Booking {
	for i := range bookings {
		if !bookings[i].IsActive() {
			continue
		}
		if candidate.Overlaps(bookings[i].Interval()) {
			return &bookings[i]
		}
	}
	return nil
}

// FilterConflicting drops candidates that overlap any active booking.
func FilterConflicting(candidates []models.Interval, bookings []models.Booking) []models.Interval {
	open := make([]models.Interval, 0, len(candidates))
	for _, cand := range candidates {
		if FindConflict(cand, bookings) == nil {
			open = append(open, cand)
		}
	}
	return open
}
