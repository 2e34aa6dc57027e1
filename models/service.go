package models

import (
	"fmt"
	"time"
)

// Service is a bookable offering of a practitioner. DurationMinutes is
// snapshotted into each booking at creation time, so later edits never
// retroactively invalidate existing bookings.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	PractitionerID  string    `bson:"practitionerId" json:"practitionerId"`
	Name            string    `bson:"name" json:"name"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Price           float64   `bson:"price" json:"price"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

func (s Service) Validate() error {
	if s.PractitionerID == "" {
		return fmt.Errorf("practitionerId is required")
	}
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be positive, got %d", s.DurationMinutes)
	}
	if s.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}
