package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotify/models"
)

// monday is a fixed reference Monday at midnight UTC.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func minPtr(v int) *int { return &v }

func workday(day time.Weekday, startMin, endMin int, breakStart, breakEnd *int) models.WeeklyAvailability {
	return models.WeeklyAvailability{
		ID:             "sched-" + day.String(),
		PractitionerID: "prac-1",
		DayOfWeek:      day,
		StartMin:       startMin,
		EndMin:         endMin,
		BreakStartMin:  breakStart,
		BreakEndMin:    breakEnd,
	}
}

func slotStarts(slots []models.Interval) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}

func TestGenerateSlotsSkipsBreak(t *testing.T) {
	// 09:00-17:00 with a 12:00-13:00 break, 30-minute service on a
	// 30-minute grid: nothing starts at 12:00 or 12:30, while 11:30 and
	// 13:00 are both offered.
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, minPtr(12*60), minPtr(13*60)),
	}
	params := SlotParams{DurationMinutes: 30, GranularityMinutes: 30}

	slots := GenerateSlots(schedule, params, monday, monday.AddDate(0, 0, 1))
	starts := slotStarts(slots)

	assert.Contains(t, starts, "11:30")
	assert.Contains(t, starts, "13:00")
	assert.NotContains(t, starts, "12:00")
	assert.NotContains(t, starts, "12:30")

	// 6 slots before the break (09:00..11:30), 8 after (13:00..16:30).
	assert.Len(t, slots, 14)
}

func TestGenerateSlotsOffGridBreakKeepsPhase(t *testing.T) {
	// A 12:00-12:15 break does not re-anchor the walk: slots stay on the
	// 09:00-anchored 30-minute grid, so 12:30 is next after the break and
	// 12:15 is never offered.
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, minPtr(12*60), minPtr(12*60+15)),
	}
	params := SlotParams{DurationMinutes: 30, GranularityMinutes: 30}

	slots := GenerateSlots(schedule, params, monday, monday.AddDate(0, 0, 1))
	starts := slotStarts(slots)

	assert.Contains(t, starts, "11:30")
	assert.Contains(t, starts, "12:30")
	assert.NotContains(t, starts, "12:00", "crosses the break")
	assert.NotContains(t, starts, "12:15", "off the grid")
	for _, s := range slots {
		assert.Zero(t, s.Start.Minute()%30, "start %s must sit on the opening-anchored grid", s.Start)
	}
}

func TestGenerateSlotsAscendingAndIdempotent(t *testing.T) {
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, minPtr(12*60), minPtr(13*60)),
		workday(time.Wednesday, 10*60, 14*60, nil, nil),
	}
	params := SlotParams{DurationMinutes: 45, GranularityMinutes: 30}
	rangeEnd := monday.AddDate(0, 0, 7)

	first := GenerateSlots(schedule, params, monday, rangeEnd)
	second := GenerateSlots(schedule, params, monday, rangeEnd)
	assert.Equal(t, first, second, "same inputs must yield the same sequence")

	byDay := map[time.Weekday]models.WeeklyAvailability{}
	for _, entry := range schedule {
		byDay[entry.DayOfWeek] = entry
	}
	for i, s := range first {
		if i > 0 {
			assert.True(t, first[i-1].Start.Before(s.Start), "slots must be strictly ascending")
		}
		assert.Equal(t, 45*time.Minute, s.Duration())

		// Every candidate fits one bookable window of its day.
		entry, ok := byDay[s.Start.Weekday()]
		require.True(t, ok)
		startMin := s.Start.Hour()*60 + s.Start.Minute()
		assert.True(t, entry.Contains(startMin, startMin+45), "slot %s escapes its working window", s.Start)
	}
}

func TestGenerateSlotsDurationExceedsWindowRemainder(t *testing.T) {
	// 09:00-10:00 window, 45-minute service, 30-minute grid: only 09:00
	// fits; a 09:30 start would run past close.
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 10*60, nil, nil),
	}
	params := SlotParams{DurationMinutes: 45, GranularityMinutes: 30}

	slots := GenerateSlots(schedule, params, monday, monday.AddDate(0, 0, 1))
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].Start.Format("15:04"))
}

func TestGenerateSlotsBufferShrinksTail(t *testing.T) {
	// With a 15-minute trailing buffer a 30-minute slot needs 45 free
	// minutes, so the last start moves from 16:30 back to 16:00.
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, nil, nil),
	}
	withBuffer := GenerateSlots(schedule,
		SlotParams{DurationMinutes: 30, GranularityMinutes: 30, BufferMinutes: 15},
		monday, monday.AddDate(0, 0, 1))
	withoutBuffer := GenerateSlots(schedule,
		SlotParams{DurationMinutes: 30, GranularityMinutes: 30},
		monday, monday.AddDate(0, 0, 1))

	assert.Equal(t, "16:30", withoutBuffer[len(withoutBuffer)-1].Start.Format("15:04"))
	assert.Equal(t, "16:00", withBuffer[len(withBuffer)-1].Start.Format("15:04"))
	assert.Len(t, withBuffer, len(withoutBuffer)-1)
}

func TestGenerateSlotsDayOffEmitsNothing(t *testing.T) {
	schedule := []models.WeeklyAvailability{
		workday(time.Tuesday, 9*60, 17*60, nil, nil),
	}
	params := SlotParams{DurationMinutes: 30, GranularityMinutes: 30}

	// Range covers Monday only; the only schedule row is Tuesday.
	slots := GenerateSlots(schedule, params, monday, monday.AddDate(0, 0, 1))
	assert.Empty(t, slots)
}

func TestGenerateSlotsClampsToRange(t *testing.T) {
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, nil, nil),
	}
	params := SlotParams{DurationMinutes: 30, GranularityMinutes: 30}

	// Range opens mid-morning: everything before 10:15 is excluded, and
	// the next grid-aligned candidate is 10:30.
	from := monday.Add(10*time.Hour + 15*time.Minute)
	slots := GenerateSlots(schedule, params, from, monday.AddDate(0, 0, 1))
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:30", slots[0].Start.Format("15:04"))
}

func TestSlotCursorRestartable(t *testing.T) {
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 17*60, minPtr(12*60), minPtr(13*60)),
		workday(time.Tuesday, 9*60, 12*60, nil, nil),
	}
	params := SlotParams{DurationMinutes: 30, GranularityMinutes: 30}
	cursor := NewSlotCursor(schedule, params, monday, monday.AddDate(0, 0, 7))

	all := cursor.All()
	require.NotEmpty(t, all)

	// Drained cursor yields nothing more.
	assert.Empty(t, cursor.Next(5))

	// Reset rewinds to the start of the range.
	cursor.Reset()
	batch := cursor.Next(3)
	require.Len(t, batch, 3)
	assert.Equal(t, all[:3], batch)

	// Batched pulls concatenate to the one-shot sequence.
	rest := cursor.All()
	assert.Equal(t, all, append(batch, rest...))
}

func TestSlotCursorBatchesAcrossDays(t *testing.T) {
	schedule := []models.WeeklyAvailability{
		workday(time.Monday, 9*60, 10*60, nil, nil),
		workday(time.Tuesday, 9*60, 10*60, nil, nil),
	}
	params := SlotParams{DurationMinutes: 30, GranularityMinutes: 30}
	cursor := NewSlotCursor(schedule, params, monday, monday.AddDate(0, 0, 7))

	// 2 slots per day; a batch of 3 must span the Monday/Tuesday boundary.
	batch := cursor.Next(3)
	require.Len(t, batch, 3)
	assert.Equal(t, time.Monday, batch[0].Start.Weekday())
	assert.Equal(t, time.Tuesday, batch[2].Start.Weekday())
}
