package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotify/models"
)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 7, h, m, 0, 0, time.UTC)
}

func iv(sh, sm, eh, em int) models.Interval {
	return models.Interval{Start: at(sh, sm), End: at(eh, em)}
}

func TestHasConflictHalfOpen(t *testing.T) {
	existing := []models.Interval{iv(10, 0, 10, 45)}

	tests := []struct {
		name      string
		candidate models.Interval
		want      bool
	}{
		{"partial overlap from the right", iv(10, 30, 11, 0), true},
		{"starts exactly at existing end", iv(10, 45, 11, 15), false},
		{"ends exactly at existing start", iv(9, 30, 10, 0), false},
		{"fully contained", iv(10, 10, 10, 20), true},
		{"fully containing", iv(9, 0, 12, 0), true},
		{"identical", iv(10, 0, 10, 45), true},
		{"disjoint before", iv(8, 0, 9, 0), false},
		{"disjoint after", iv(11, 0, 12, 0), false},
		{"one minute of overlap", iv(10, 44, 11, 14), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasConflict(tt.candidate, existing))
		})
	}
}

func TestFindConflictIgnoresInactiveBookings(t *testing.T) {
	bookings := []models.Booking{
		{ID: "b-cancelled", Start: at(10, 0), End: at(10, 30), Status: models.StatusCancelled},
		{ID: "b-completed", Start: at(10, 0), End: at(10, 30), Status: models.StatusCompleted},
		{ID: "b-pending", Start: at(10, 15), End: at(10, 45), Status: models.StatusPending},
	}

	hit := FindConflict(iv(10, 0, 10, 30), bookings)
	require.NotNil(t, hit)
	assert.Equal(t, "b-pending", hit.ID)

	assert.Nil(t, FindConflict(iv(10, 45, 11, 15), bookings))
}

func TestFilterConflicting(t *testing.T) {
	candidates := []models.Interval{
		iv(9, 0, 9, 30),
		iv(9, 30, 10, 0),
		iv(10, 0, 10, 30),
		iv(10, 30, 11, 0),
	}
	bookings := []models.Booking{
		{ID: "b-1", Start: at(9, 45), End: at(10, 15), Status: models.StatusConfirmed},
	}

	open := FilterConflicting(candidates, bookings)
	require.Len(t, open, 2)
	assert.Equal(t, iv(9, 0, 9, 30), open[0])
	assert.Equal(t, iv(10, 30, 11, 0), open[1])
}
