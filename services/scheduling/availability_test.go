package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slotify/models"
)

// newTestAvailability wires an availability reader over the same in-memory
// stores as the engine tests, with a miniredis-backed response cache.
func newTestAvailability(t *testing.T) (*Availability, *fakeBookingStore, *miniredis.Miniredis) {
	t.Helper()
	bookings := newFakeBookingStore()
	schedules := &fakeScheduleStore{rows: []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, minPtr(12*60), minPtr(13*60)),
	}}
	services := newFakeServiceStore(
		models.Service{ID: "svc-30", PractitionerID: "prac-1", Name: "Consultation", DurationMinutes: 30, IsActive: true},
		models.Service{ID: "svc-retired", PractitionerID: "prac-1", Name: "Legacy", DurationMinutes: 30, IsActive: false},
	)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &Availability{
		Bookings:           bookings,
		Schedules:          schedules,
		Services:           services,
		Cache:              client,
		CacheTTL:           time.Minute,
		Logger:             zap.NewNop(),
		GranularityMinutes: 30,
		Now:                func() time.Time { return fixedNow },
	}, bookings, mr
}

func TestGetOpenSlotsFullDay(t *testing.T) {
	avail, _, _ := newTestAvailability(t)

	slots, err := avail.GetOpenSlots(context.Background(), "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.Len(t, slots, 14)
	assert.Contains(t, starts, "09:00")
	assert.Contains(t, starts, "11:30")
	assert.Contains(t, starts, "13:00")
	assert.NotContains(t, starts, "12:00")
	assert.NotContains(t, starts, "12:30")
}

func TestGetOpenSlotsExcludesBookedIntervals(t *testing.T) {
	avail, bookings, _ := newTestAvailability(t)

	// A 10:00-10:45 confirmed booking knocks out both grid slots it
	// touches, even though neither candidate matches it exactly.
	bookings.put(models.Booking{
		ID: "b-1", PractitionerID: "prac-1", Status: models.StatusConfirmed,
		Start: at(10, 0), End: at(10, 45),
	})

	slots, err := avail.GetOpenSlots(context.Background(), "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.NotContains(t, starts, "10:00")
	assert.NotContains(t, starts, "10:30")
	assert.Contains(t, starts, "09:30")
	assert.Contains(t, starts, "11:00")
	assert.Len(t, slots, 12)
}

func TestGetOpenSlotsIgnoresInactiveBookings(t *testing.T) {
	avail, bookings, _ := newTestAvailability(t)

	bookings.put(models.Booking{
		ID: "b-cancelled", PractitionerID: "prac-1", Status: models.StatusCancelled,
		Start: at(10, 0), End: at(10, 30),
	})

	slots, err := avail.GetOpenSlots(context.Background(), "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Contains(t, slotStarts(slots), "10:00")
}

func TestGetOpenSlotsCachedResponse(t *testing.T) {
	avail, bookings, mr := newTestAvailability(t)
	ctx := context.Background()

	first, err := avail.GetOpenSlots(ctx, "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	// A booking landing after the first read is invisible until the entry
	// expires; the write path re-validates, so staleness is read-only.
	bookings.put(models.Booking{
		ID: "b-late", PractitionerID: "prac-1", Status: models.StatusPending,
		Start: at(10, 0), End: at(10, 30),
	})

	cached, err := avail.GetOpenSlots(ctx, "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	mr.FastForward(2 * time.Minute)
	fresh, err := avail.GetOpenSlots(ctx, "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.NotContains(t, slotStarts(fresh), "10:00")
}

func TestGetOpenSlotsClampBucketsCacheKey(t *testing.T) {
	avail, bookings, _ := newTestAvailability(t)
	ctx := context.Background()

	// Two requests a few seconds apart inside the same minute must share
	// a cache entry despite the from-clamp.
	avail.Now = func() time.Time { return at(10, 15).Add(12 * time.Second) }
	first, err := avail.GetOpenSlots(ctx, "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, "10:30", first[0].Start.Format("15:04"), "clamp rounds up, never offering a started slot")

	bookings.put(models.Booking{
		ID: "b-between", PractitionerID: "prac-1", Status: models.StatusPending,
		Start: at(10, 30), End: at(11, 0),
	})

	avail.Now = func() time.Time { return at(10, 15).Add(47 * time.Second) }
	second, err := avail.GetOpenSlots(ctx, "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, first, second, "same-minute requests must hit the cached response")
}

func TestGetOpenSlotsWithoutCache(t *testing.T) {
	avail, _, _ := newTestAvailability(t)
	avail.Cache = nil

	slots, err := avail.GetOpenSlots(context.Background(), "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, slots, 14)
}

func TestGetOpenSlotsClampsPastWindow(t *testing.T) {
	avail, _, _ := newTestAvailability(t)

	// A window entirely before now yields nothing rather than stale slots.
	past := fixedNow.AddDate(0, 0, -14)
	slots, err := avail.GetOpenSlots(context.Background(), "prac-1", "svc-30", past, past.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, slots)

	// A window straddling now only offers the future portion.
	avail.Now = func() time.Time { return at(10, 15) }
	slots, err = avail.GetOpenSlots(context.Background(), "prac-1", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:30", slots[0].Start.Format("15:04"))
}

func TestGetOpenSlotsUnknownOrRetiredService(t *testing.T) {
	avail, _, _ := newTestAvailability(t)
	ctx := context.Background()

	var notFound *NotFoundError
	_, err := avail.GetOpenSlots(ctx, "prac-1", "svc-missing", monday, monday.AddDate(0, 0, 1))
	require.ErrorAs(t, err, &notFound)

	_, err = avail.GetOpenSlots(ctx, "prac-1", "svc-retired", monday, monday.AddDate(0, 0, 1))
	require.ErrorAs(t, err, &notFound)
}

func TestGetOpenSlotsEmptySchedule(t *testing.T) {
	avail, _, _ := newTestAvailability(t)

	slots, err := avail.GetOpenSlots(context.Background(), "prac-unknown", "svc-30", monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, slots)
}
