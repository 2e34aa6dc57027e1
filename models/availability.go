package models

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// WeeklyAvailability is one recurring working-hours row for a practitioner.
// Times are minutes from midnight in the platform's canonical timezone (UTC).
// One row per (practitionerID, dayOfWeek); the whole weekly set is replaced
// in bulk whenever the practitioner edits their schedule.
type WeeklyAvailability struct {
	ID             string       `bson:"id" json:"id"`
	PractitionerID string       `bson:"practitionerId" json:"practitionerId"`
	DayOfWeek      time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartMin       int          `bson:"startMin" json:"startMin"`
	EndMin         int          `bson:"endMin" json:"endMin"`
	BreakStartMin  *int         `bson:"breakStartMin,omitempty" json:"breakStartMin,omitempty"`
	BreakEndMin    *int         `bson:"breakEndMin,omitempty" json:"breakEndMin,omitempty"`
}

// Validate enforces the schedule invariants: start < end, both within the
// day, and any break inside the working window.
func (wa WeeklyAvailability) Validate() error {
	if wa.PractitionerID == "" {
		return fmt.Errorf("practitionerId is required")
	}
	if wa.DayOfWeek < time.Sunday || wa.DayOfWeek > time.Saturday {
		return fmt.Errorf("dayOfWeek %d out of range [0..6]", wa.DayOfWeek)
	}
	if wa.StartMin < 0 || wa.EndMin > minutesPerDay {
		return fmt.Errorf("working window [%d, %d] outside the day", wa.StartMin, wa.EndMin)
	}
	if wa.StartMin >= wa.EndMin {
		return fmt.Errorf("working window start %d must be before end %d", wa.StartMin, wa.EndMin)
	}
	if (wa.BreakStartMin == nil) != (wa.BreakEndMin == nil) {
		return fmt.Errorf("break start and end must be set together")
	}
	if wa.BreakStartMin != nil {
		bs, be := *wa.BreakStartMin, *wa.BreakEndMin
		if bs >= be {
			return fmt.Errorf("break start %d must be before break end %d", bs, be)
		}
		if bs < wa.StartMin || be > wa.EndMin {
			return fmt.Errorf("break [%d, %d] must lie within working window [%d, %d]", bs, be, wa.StartMin, wa.EndMin)
		}
	}
	return nil
}

// MinuteRange is a half-open [Start, End) range of minutes from midnight.
type MinuteRange struct {
	Start int
	End   int
}

// Windows returns the bookable portions of the day: the working window with
// the break (if any) carved out, in ascending order.
func (wa WeeklyAvailability) Windows() []MinuteRange {
	if wa.BreakStartMin == nil {
		return []MinuteRange{{Start: wa.StartMin, End: wa.EndMin}}
	}
	var windows []MinuteRange
	if *wa.BreakStartMin > wa.StartMin {
		windows = append(windows, MinuteRange{Start: wa.StartMin, End: *wa.BreakStartMin})
	}
	if *wa.BreakEndMin < wa.EndMin {
		windows = append(windows, MinuteRange{Start: *wa.BreakEndMin, End: wa.EndMin})
	}
	return windows
}

// Contains reports whether the minute range [start, end) fits entirely
// inside one bookable window.
func (wa WeeklyAvailability) Contains(start, end int) bool {
	for _, w := range wa.Windows() {
		if start >= w.Start && end <= w.End {
			return true
		}
	}
	return false
}
