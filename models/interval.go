package models

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End) in UTC.
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Validate rejects zero-duration and inverted intervals.
func (iv Interval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return fmt.Errorf("interval start %s must be before end %s", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
	}
	return nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints (a.End == b.Start) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}
