package scheduling

import (
	"time"

	"slotify/models"
	"slotify/utils"
)

// SlotParams are the knobs for candidate generation.
type SlotParams struct {
	DurationMinutes    int
	GranularityMinutes int
	BufferMinutes      int
}

// SlotCursor walks a date range day by day, emitting candidate intervals
// derived from the recurring weekly schedule. It is pure (no I/O), finite,
// and restartable: Reset rewinds to the start of the range, and Next may be
// called repeatedly to pull the next batch.
type SlotCursor struct {
	byDay      map[time.Weekday]models.WeeklyAvailability
	params     SlotParams
	rangeStart time.Time
	rangeEnd   time.Time

	day     time.Time
	pending []models.Interval
}

// NewSlotCursor builds a cursor over [rangeStart, rangeEnd). Days with no
// schedule row emit nothing. Granularity need not divide duration evenly.
func NewSlotCursor(schedule []models.WeeklyAvailability, params SlotParams, rangeStart, rangeEnd time.Time) *SlotCursor {
	byDay := make(map[time.Weekday]models.WeeklyAvailability, len(schedule))
	for _, entry := range schedule {
		byDay[entry.DayOfWeek] = entry
	}
	c := &SlotCursor{
		byDay:      byDay,
		params:     params,
		rangeStart: rangeStart.UTC(),
		rangeEnd:   rangeEnd.UTC(),
	}
	c.Reset()
	return c
}

// Reset rewinds the cursor to the beginning of the date range.
func (c *SlotCursor) Reset() {
	c.day = utils.DayStartUTC(c.rangeStart)
	c.pending = nil
}

// Next returns up to n candidate intervals in ascending order, or fewer
// when the range is exhausted.
func (c *SlotCursor) Next(n int) []models.Interval {
	var out []models.Interval
	for len(out) < n {
		if len(c.pending) == 0 {
			if !c.advanceDay() {
				break
			}
			continue
		}
		take := n - len(out)
		if take > len(c.pending) {
			take = len(c.pending)
		}
		out = append(out, c.pending[:take]...)
		c.pending = c.pending[take:]
	}
	return out
}

// All drains the remaining candidates.
func (c *SlotCursor) All() []models.Interval {
	var out []models.Interval
	for {
		batch := c.Next(256)
		if len(batch) == 0 {
			return out
		}
		out = append(out, batch...)
	}
}

// advanceDay fills pending with the next non-empty day's candidates.
// Returns false once the range is exhausted.
func (c *SlotCursor) advanceDay() bool {
	for c.day.Before(c.rangeEnd) {
		day := c.day
		c.day = c.day.AddDate(0, 0, 1)

		entry, ok := c.byDay[day.Weekday()]
		if !ok {
			continue
		}
		slots := c.daySlots(day, entry)
		if len(slots) > 0 {
			c.pending = slots
			return true
		}
	}
	return false
}

// daySlots walks from the day's opening to its close in granularity steps,
// with the step phase anchored at the opening all day. A step is emitted
// when the interval plus trailing buffer fits inside one bookable window;
// steps that intersect the break are skipped without re-anchoring the grid,
// so an off-grid break end never shifts the afternoon slots.
func (c *SlotCursor) daySlots(dayStart time.Time, entry models.WeeklyAvailability) []models.Interval {
	var out []models.Interval
	occupied := c.params.DurationMinutes + c.params.BufferMinutes
	for t := entry.StartMin; t+occupied <= entry.EndMin; t += c.params.GranularityMinutes {
		if !entry.Contains(t, t+occupied) {
			continue
		}
		start := dayStart.Add(time.Duration(t) * time.Minute)
		end := start.Add(time.Duration(c.params.DurationMinutes) * time.Minute)
		if start.Before(c.rangeStart) || end.After(c.rangeEnd) {
			continue
		}
		out = append(out, models.Interval{Start: start, End: end})
	}
	return out
}

// GenerateSlots is the one-shot form of the cursor: the full ordered
// candidate sequence for the range.
func GenerateSlots(schedule []models.WeeklyAvailability, params SlotParams, rangeStart, rangeEnd time.Time) []models.Interval {
	return NewSlotCursor(schedule, params, rangeStart, rangeEnd).All()
}
