package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "slotify/database/repository/booking"
	scheduleRepo "slotify/database/repository/schedule"
	serviceRepo "slotify/database/repository/service"
	"slotify/models"
)

// Availability computes open candidate slots: schedule rows through the
// slot generator, filtered against the live active booking set. Responses
// are cached briefly in Redis; staleness is acceptable because the write
// path re-validates every candidate.
type Availability struct {
	Bookings  bookingRepo.BookingRepository
	Schedules scheduleRepo.ScheduleRepository
	Services  serviceRepo.ServiceRepository

	Cache    *redis.Client
	CacheTTL time.Duration

	Logger *zap.Logger

	GranularityMinutes int
	BufferMinutes      int
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (a *Availability) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func availabilityCacheKey(practitionerID, serviceID string, from, to time.Time) string {
	return fmt.Sprintf("availability:%s:%s:%d:%d", practitionerID, serviceID, from.Unix(), to.Unix())
}

// GetOpenSlots returns the open candidate intervals for a practitioner and
// service within [from, to). Slots starting in the past are never offered.
// Idempotent: the same inputs with no intervening bookings yield the same
// sequence.
func (a *Availability) GetOpenSlots(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
	from, to = from.UTC(), to.UTC()
	if now := a.now(); from.Before(now) {
		// Round up to the next minute so every request in the same minute
		// shares a cache key; raw clamping to now would mint a new key
		// every second and the cache would never hit.
		from = now.Truncate(time.Minute)
		if from.Before(now) {
			from = from.Add(time.Minute)
		}
	}
	if !from.Before(to) {
		return []models.Interval{}, nil
	}

	key := availabilityCacheKey(practitionerID, serviceID, from, to)
	if a.Cache != nil {
		if cached, err := a.Cache.Get(ctx, key).Result(); err == nil {
			var slots []models.Interval
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				return slots, nil
			}
			a.Logger.Warn("dropping unreadable availability cache entry", zap.String("key", key))
		}
	}

	slots, err := a.computeOpenSlots(ctx, practitionerID, serviceID, from, to)
	if err != nil {
		return nil, err
	}

	if a.Cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			if err := a.Cache.Set(ctx, key, data, a.CacheTTL).Err(); err != nil {
				a.Logger.Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return slots, nil
}

func (a *Availability) computeOpenSlots(ctx context.Context, practitionerID, serviceID string, from, to time.Time) ([]models.Interval, error) {
	svc, err := a.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, &TransientError{Op: "fetch service", Err: err}
	}
	if svc == nil || !svc.IsActive {
		return nil, &NotFoundError{Resource: "service", ID: serviceID}
	}

	schedule, err := a.Schedules.GetWeekly(ctx, practitionerID)
	if err != nil {
		return nil, &TransientError{Op: "fetch schedule", Err: err}
	}
	if len(schedule) == 0 {
		return []models.Interval{}, nil
	}

	params := SlotParams{
		DurationMinutes:    svc.DurationMinutes,
		GranularityMinutes: a.GranularityMinutes,
		BufferMinutes:      a.BufferMinutes,
	}
	candidates := GenerateSlots(schedule, params, from, to)
	if len(candidates) == 0 {
		return []models.Interval{}, nil
	}

	// Fetch by overlap, not by day: a booking that started before the
	// window can still run into it.
	active, err := a.Bookings.ListActiveInWindow(ctx, practitionerID, from, to)
	if err != nil {
		return nil, &TransientError{Op: "fetch active bookings", Err: err}
	}

	open := FilterConflicting(candidates, active)
	a.Logger.Debug("computed availability",
		zap.String("practitionerId", practitionerID),
		zap.Int("candidates", len(candidates)),
		zap.Int("open", len(open)))
	return open, nil
}
