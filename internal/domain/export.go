package domain

import "time"

// ExportRow is a single row in the owner's full-data export.
// It is a flat, denormalized view: one row per stop in visiting order, with
// trip fields repeated for every stop on that trip. Trips with no stops yield
// one row with zero values for all stop fields.
type ExportRow struct {
	// Trip fields, repeated for every stop on the trip.
	TripID        string
	TripName      string
	TripStatus    string
	TripStartDate string // "2006-01-02"
	TripEndDate   string // "2006-01-02"
	TotalBudget   float64
	Currency      string

	// Stop fields, zero values when the trip has no stops.
	StopCity        string
	StopCountry     string
	StopStartDate   *time.Time
	StopEndDate     *time.Time
	EstimatedBudget float64
	StopNotes       string

	// Activities holds the names of the stop's activities that still
	// resolve in the catalog, in the stop's order.
	Activities []string
}
