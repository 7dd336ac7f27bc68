package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stop is a single-city leg of a trip. It belongs to exactly one trip and
// references catalog activities in the order the traveller added them.
type Stop struct {
	ID              uuid.UUID
	TripID          uuid.UUID
	CityID          uuid.UUID
	City            string
	Country         string
	StartDate       time.Time
	EndDate         time.Time
	ActivityIDs     []uuid.UUID
	EstimatedBudget float64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasActivity reports whether activityID is already on the stop.
func (s Stop) HasActivity(activityID uuid.UUID) bool {
	for _, id := range s.ActivityIDs {
		if id == activityID {
			return true
		}
	}
	return false
}

// StopInput carries the caller-supplied fields for adding a stop to a trip.
// City and Country may be left blank; they are filled in from the catalog.
type StopInput struct {
	CityID    uuid.UUID
	City      string
	Country   string
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

// StopUpdate is the whitelist of fields a caller may change on a stop.
type StopUpdate struct {
	StartDate       *time.Time
	EndDate         *time.Time
	EstimatedBudget *float64
	Notes           *string
}

// Apply returns a copy of s with every non-nil field of u applied.
func (u StopUpdate) Apply(s Stop) Stop {
	if u.StartDate != nil {
		s.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		s.EndDate = *u.EndDate
	}
	if u.EstimatedBudget != nil {
		s.EstimatedBudget = *u.EstimatedBudget
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	return s
}
