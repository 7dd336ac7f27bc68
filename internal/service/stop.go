package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/repo"
)

// Stop operations live on TripService: a stop is only ever reached through
// its owning trip, which is locked and ownership-checked first.

// AddStop creates a stop in the given catalog city and appends it to the end
// of the trip's visiting order. The insert and the append commit together.
// Blank City/Country are filled in from the catalog.
// Returns domain.ErrNotFound if the trip or the city does not exist.
func (s *TripService) AddStop(ctx context.Context, tripID, callerID uuid.UUID, in domain.StopInput) (domain.Stop, error) {
	const op = "service.TripService.AddStop"

	var created domain.Stop
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := lockOwnedTrip(ctx, r, tripID, callerID)
		if err != nil {
			return err
		}
		if err := validateStopDates(in.StartDate, in.EndDate); err != nil {
			return err
		}

		city, err := s.catalog.GetCity(ctx, in.CityID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("city: %w", err)
			}
			return err
		}

		stop := domain.Stop{
			TripID:      tripID,
			CityID:      city.ID,
			City:        strings.TrimSpace(in.City),
			Country:     strings.TrimSpace(in.Country),
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			ActivityIDs: []uuid.UUID{},
			Notes:       strings.TrimSpace(in.Notes),
		}
		if stop.City == "" {
			stop.City = city.Name
		}
		if stop.Country == "" {
			stop.Country = city.Country
		}

		created, err = r.Stops.Create(ctx, stop)
		if err != nil {
			return err
		}

		trip.StopIDs = append(trip.StopIDs, created.ID)
		_, err = r.Trips.Update(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Stop{}, wrap(op, err)
	}
	s.log.DebugContext(ctx, "stop added", "trip_id", tripID, "stop_id", created.ID, "city_id", created.CityID)
	return created, nil
}

// UpdateStop applies the whitelisted fields of u to a stop on the trip.
// Returns domain.ErrNotFound if the stop is not on the trip.
func (s *TripService) UpdateStop(ctx context.Context, tripID, stopID, callerID uuid.UUID, u domain.StopUpdate) (domain.Stop, error) {
	const op = "service.TripService.UpdateStop"

	if u.Notes != nil {
		n := strings.TrimSpace(*u.Notes)
		u.Notes = &n
	}

	var updated domain.Stop
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		stop, err := lockOwnedStop(ctx, r, tripID, stopID, callerID)
		if err != nil {
			return err
		}
		next := u.Apply(stop)
		if err := validateStopDates(next.StartDate, next.EndDate); err != nil {
			return err
		}
		if err := validateAmount("estimated_budget", next.EstimatedBudget); err != nil {
			return err
		}
		updated, err = r.Stops.Update(ctx, next)
		return err
	})
	if err != nil {
		return domain.Stop{}, wrap(op, err)
	}
	return updated, nil
}

// DeleteStop removes the stop record and its reference from the trip.
// Deleting a stop that is already gone is a successful no-op.
func (s *TripService) DeleteStop(ctx context.Context, tripID, stopID, callerID uuid.UUID) error {
	const op = "service.TripService.DeleteStop"

	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := lockOwnedTrip(ctx, r, tripID, callerID)
		if err != nil {
			return err
		}
		if err := r.Stops.Delete(ctx, tripID, stopID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if !trip.HasStop(stopID) {
			return nil
		}
		trip.StopIDs = slices.DeleteFunc(trip.StopIDs, func(id uuid.UUID) bool { return id == stopID })
		_, err = r.Trips.Update(ctx, trip)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	s.log.DebugContext(ctx, "stop deleted", "trip_id", tripID, "stop_id", stopID)
	return nil
}

// AddActivity appends a catalog activity to a stop. Adding an activity that
// is already on the stop changes nothing. The activity may belong to any city.
// Returns domain.ErrNotFound if the trip, the stop, or the activity does not exist.
func (s *TripService) AddActivity(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error) {
	const op = "service.TripService.AddActivity"

	var stop domain.Stop
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		stop, err = lockOwnedStop(ctx, r, tripID, stopID, callerID)
		if err != nil {
			return err
		}
		if _, err := s.catalog.GetActivity(ctx, activityID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("activity: %w", err)
			}
			return err
		}
		if stop.HasActivity(activityID) {
			return nil
		}
		stop.ActivityIDs = append(stop.ActivityIDs, activityID)
		stop, err = r.Stops.Update(ctx, stop)
		return err
	})
	if err != nil {
		return domain.StopDetail{}, wrap(op, err)
	}

	detail, err := s.joinStop(ctx, stop)
	if err != nil {
		return domain.StopDetail{}, wrap(op, err)
	}
	return detail, nil
}

// RemoveActivity removes an activity reference from a stop. Removing an
// activity that is not on the stop changes nothing.
func (s *TripService) RemoveActivity(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error) {
	const op = "service.TripService.RemoveActivity"

	var stop domain.Stop
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		stop, err = lockOwnedStop(ctx, r, tripID, stopID, callerID)
		if err != nil {
			return err
		}
		if !stop.HasActivity(activityID) {
			return nil
		}
		stop.ActivityIDs = slices.DeleteFunc(stop.ActivityIDs, func(id uuid.UUID) bool { return id == activityID })
		stop, err = r.Stops.Update(ctx, stop)
		return err
	})
	if err != nil {
		return domain.StopDetail{}, wrap(op, err)
	}

	detail, err := s.joinStop(ctx, stop)
	if err != nil {
		return domain.StopDetail{}, wrap(op, err)
	}
	return detail, nil
}

// lockOwnedStop locks the owning trip, checks ownership, and loads the stop.
// A stop the trip does not list is reported as not found even if a record
// with that ID exists.
func lockOwnedStop(ctx context.Context, r repo.Repos, tripID, stopID, callerID uuid.UUID) (domain.Stop, error) {
	trip, err := lockOwnedTrip(ctx, r, tripID, callerID)
	if err != nil {
		return domain.Stop{}, err
	}
	if !trip.HasStop(stopID) {
		return domain.Stop{}, fmt.Errorf("stop: %w", domain.ErrNotFound)
	}
	return r.Stops.GetByID(ctx, tripID, stopID)
}

// validateStopDates requires both dates and start_date <= end_date.
// A same-day stop is valid.
func validateStopDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start_date must not be after end_date", domain.ErrValidation)
	}
	return nil
}
