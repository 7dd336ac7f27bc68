package domain

import "time"

// StopDetail is a stop joined with its catalog data for display.
// City is nil when the catalog row no longer exists. Activities holds only
// the referenced activities that still resolve, in the stop's order.
type StopDetail struct {
	Stop       Stop
	City       *City
	Activities []Activity
}

// TripDetail is the read view of a whole aggregate: the trip, its stops in
// visiting order, and a budget summary computed from them.
type TripDetail struct {
	Trip   Trip
	Stops  []StopDetail
	Budget BudgetSummary
}

// BudgetSummary is derived on every read and never stored, so it cannot
// disagree with the stops and activities it was computed from.
type BudgetSummary struct {
	TotalBudget    float64
	Currency       string
	StopsEstimated float64
	ActivitiesCost float64
	Planned        float64
	Remaining      float64
	Days           int
	DailyAverage   float64
}

// NewBudgetSummary totals estimated stop spend and joined activity costs
// against the trip's budget.
func NewBudgetSummary(trip Trip, stops []StopDetail) BudgetSummary {
	b := BudgetSummary{
		TotalBudget: trip.TotalBudget,
		Currency:    trip.Currency,
		Days:        TripDays(trip.StartDate, trip.EndDate),
	}
	for _, sd := range stops {
		b.StopsEstimated += sd.Stop.EstimatedBudget
		for _, a := range sd.Activities {
			b.ActivitiesCost += a.Cost
		}
	}
	b.Planned = b.StopsEstimated + b.ActivitiesCost
	b.Remaining = b.TotalBudget - b.Planned
	if b.Days > 0 {
		b.DailyAverage = b.Planned / float64(b.Days)
	}
	return b
}

// TripDays returns the inclusive number of calendar days from start to end.
// A same-day trip is one day long. Returns 0 when end is before start.
func TripDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
