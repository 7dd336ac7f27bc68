// Package domain contains the core data types for the Itinerary API.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied to trips created without an explicit currency.
const DefaultCurrency = "INR"

// TripStatus is a caller-driven label for where a trip is in its life.
// Any status may be set from any other; only the value itself is validated.
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "Planning"
	TripStatusActive    TripStatus = "Active"
	TripStatusCompleted TripStatus = "Completed"
)

// Valid reports whether s is one of the enumerated statuses, exactly.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPlanning, TripStatusActive, TripStatusCompleted:
		return true
	}
	return false
}

// ParseTripStatus returns the TripStatus matching s (case-insensitive).
// Returns ErrValidation for anything outside the enumeration.
func ParseTripStatus(s string) (TripStatus, error) {
	for _, st := range []TripStatus{TripStatusPlanning, TripStatusActive, TripStatusCompleted} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: status must be one of Planning, Active, Completed", ErrValidation)
}

// Trip is the top-level aggregate. It is owned by exactly one user and owns
// an ordered list of stops. StopIDs is the visiting order.
type Trip struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	StopIDs     []uuid.UUID
	TotalBudget float64
	Currency    string
	Status      TripStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStop reports whether stopID is referenced by the trip.
func (t Trip) HasStop(stopID uuid.UUID) bool {
	for _, id := range t.StopIDs {
		if id == stopID {
			return true
		}
	}
	return false
}

// TripInput carries the caller-supplied fields for creating a trip.
type TripInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	TotalBudget float64
	Currency    string
}

// TripUpdate is the whitelist of fields a caller may change on a trip.
// A nil field is left untouched. There is intentionally no ID or OwnerID here.
type TripUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	TotalBudget *float64
	Currency    *string
	Status      *TripStatus
}

// Apply returns a copy of t with every non-nil field of u applied.
func (u TripUpdate) Apply(t Trip) Trip {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		t.EndDate = *u.EndDate
	}
	if u.TotalBudget != nil {
		t.TotalBudget = *u.TotalBudget
	}
	if u.Currency != nil {
		t.Currency = *u.Currency
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	return t
}
