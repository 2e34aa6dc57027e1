package scheduleRepo

import (
	"context"
	"time"

	"slotify/models"
)

// ScheduleRepository persists recurring weekly availability rows.
type ScheduleRepository interface {
	// GetWeekly returns all availability rows for a practitioner, ordered
	// by day of week.
	GetWeekly(ctx context.Context, practitionerID string) ([]models.WeeklyAvailability, error)

	// GetForDay returns the availability row for a practitioner on one
	// weekday, or nil when the day is off.
	GetForDay(ctx context.Context, practitionerID string, day time.Weekday) (*models.WeeklyAvailability, error)

	// ReplaceWeekly swaps the practitioner's entire weekly schedule for the
	// given rows (delete-all-then-insert, atomically). Rows must already be
	// validated.
	ReplaceWeekly(ctx context.Context, practitionerID string, entries []models.WeeklyAvailability) error

	EnsureIndexes() error
}
