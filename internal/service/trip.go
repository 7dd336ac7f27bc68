// Package service contains the business logic for the Itinerary API.
// Services validate inputs, enforce ownership and aggregate invariants, and
// orchestrate repo calls. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/repo"
)

// joinConcurrency bounds the catalog lookups a single Get fans out.
const joinConcurrency = 8

// TripService manages the Trip aggregate: a trip, its ordered stops, and the
// ordered activity references on each stop.
//
// Every mutation runs in one transaction that starts by locking the trip row,
// and ownership is checked against that locked row. Concurrent writers to the
// same trip therefore serialize, and a failed step leaves nothing behind.
// Reads use the pool-backed repos and tolerate stops or catalog rows that
// disappear mid-read.
type TripService struct {
	tx      repo.TxRunner
	trips   repo.TripRepo
	stops   repo.StopRepo
	catalog repo.CatalogRepo
	log     *slog.Logger
}

// NewTripService constructs a TripService. trips and stops serve reads; tx
// supplies transaction-bound repos for writes.
func NewTripService(tx repo.TxRunner, trips repo.TripRepo, stops repo.StopRepo, catalog repo.CatalogRepo, log *slog.Logger) *TripService {
	return &TripService{tx: tx, trips: trips, stops: stops, catalog: catalog, log: log}
}

// List returns one page of the owner's trips, most recently created first.
// Items is never nil.
func (s *TripService) List(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) (domain.Page[domain.Trip], error) {
	trips, total, err := s.trips.ListByOwner(ctx, ownerID, params)
	if err != nil {
		return domain.Page[domain.Trip]{}, wrap("service.TripService.List", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return domain.Page[domain.Trip]{Items: trips, Total: total, Params: params}, nil
}

// Get returns the trip with its stops in visiting order, each joined with its
// city and activities, plus a freshly computed budget summary.
// Returns domain.ErrNotFound or domain.ErrForbidden.
func (s *TripService) Get(ctx context.Context, tripID, callerID uuid.UUID) (domain.TripDetail, error) {
	const op = "service.TripService.Get"

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripDetail{}, wrap(op, err)
	}
	if err := checkOwner(trip, callerID); err != nil {
		return domain.TripDetail{}, wrap(op, err)
	}

	stored, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.TripDetail{}, wrap(op, err)
	}
	ordered := orderStops(trip.StopIDs, stored)

	details := make([]domain.StopDetail, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(joinConcurrency)
	for i, st := range ordered {
		g.Go(func() error {
			d, err := s.joinStop(gctx, st)
			if err != nil {
				return err
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TripDetail{}, wrap(op, err)
	}

	return domain.TripDetail{
		Trip:   trip,
		Stops:  details,
		Budget: domain.NewBudgetSummary(trip, details),
	}, nil
}

// Create validates and persists a new trip owned by ownerID. The trip starts
// with no stops, status Planning, and the default currency unless one is given.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, in domain.TripInput) (domain.Trip, error) {
	const op = "service.TripService.Create"

	trip := domain.Trip{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		StopIDs:     []uuid.UUID{},
		TotalBudget: in.TotalBudget,
		Currency:    normalizeCurrency(in.Currency),
		Status:      domain.TripStatusPlanning,
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, wrap(op, err)
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, wrap(op, err)
	}
	s.log.DebugContext(ctx, "trip created", "trip_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// Update applies the whitelisted fields of u to the trip. The stored trip is
// unchanged when the result would be invalid (e.g. start after end).
func (s *TripService) Update(ctx context.Context, tripID, callerID uuid.UUID, u domain.TripUpdate) (domain.Trip, error) {
	const op = "service.TripService.Update"

	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		u.Name = &trimmed
	}
	if u.Currency != nil {
		c := normalizeCurrency(*u.Currency)
		u.Currency = &c
	}

	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := lockOwnedTrip(ctx, r, tripID, callerID)
		if err != nil {
			return err
		}
		next := u.Apply(trip)
		if err := validateTrip(next); err != nil {
			return err
		}
		updated, err = r.Trips.Update(ctx, next)
		return err
	})
	if err != nil {
		return domain.Trip{}, wrap(op, err)
	}
	return updated, nil
}

// Delete removes the trip and every stop it owns in one transaction.
func (s *TripService) Delete(ctx context.Context, tripID, callerID uuid.UUID) error {
	const op = "service.TripService.Delete"

	var removed int64
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := lockOwnedTrip(ctx, r, tripID, callerID); err != nil {
			return err
		}
		n, err := r.Stops.DeleteByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		removed = n
		return r.Trips.Delete(ctx, tripID)
	})
	if err != nil {
		return wrap(op, err)
	}
	s.log.DebugContext(ctx, "trip deleted", "trip_id", tripID, "stops_deleted", removed)
	return nil
}

// lockOwnedTrip loads the trip under a row lock and checks the caller owns it.
func lockOwnedTrip(ctx context.Context, r repo.Repos, tripID, callerID uuid.UUID) (domain.Trip, error) {
	trip, err := r.Trips.GetForUpdate(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := checkOwner(trip, callerID); err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

func checkOwner(trip domain.Trip, callerID uuid.UUID) error {
	if trip.OwnerID != callerID {
		return fmt.Errorf("%w: caller does not own trip", domain.ErrForbidden)
	}
	return nil
}

// joinStop resolves a stop's city and activities from the catalog. A missing
// city yields a nil City; activities that no longer resolve are left out.
func (s *TripService) joinStop(ctx context.Context, st domain.Stop) (domain.StopDetail, error) {
	d := domain.StopDetail{Stop: st, Activities: []domain.Activity{}}

	city, err := s.catalog.GetCity(ctx, st.CityID)
	switch {
	case err == nil:
		d.City = &city
	case !errors.Is(err, domain.ErrNotFound):
		return domain.StopDetail{}, err
	}

	if len(st.ActivityIDs) == 0 {
		return d, nil
	}
	found, err := s.catalog.GetActivitiesByIDs(ctx, st.ActivityIDs)
	if err != nil {
		return domain.StopDetail{}, err
	}
	d.Activities = orderActivities(st.ActivityIDs, found)
	return d, nil
}

// orderStops returns the stored stops in the order given by ids, skipping
// IDs with no stored stop.
func orderStops(ids []uuid.UUID, stored []domain.Stop) []domain.Stop {
	byID := make(map[uuid.UUID]domain.Stop, len(stored))
	for _, st := range stored {
		byID[st.ID] = st
	}
	out := make([]domain.Stop, 0, len(ids))
	for _, id := range ids {
		if st, ok := byID[id]; ok {
			out = append(out, st)
		}
	}
	return out
}

// orderActivities returns found in the order given by ids, skipping IDs the
// catalog did not return.
func orderActivities(ids []uuid.UUID, found []domain.Activity) []domain.Activity {
	byID := make(map[uuid.UUID]domain.Activity, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]domain.Activity, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return domain.DefaultCurrency
	}
	return c
}

// validateTrip enforces the rules common to Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Both dates are required and StartDate must not be after EndDate.
//   - TotalBudget must be in [0, maxAmount).
//   - Currency is three ASCII letters; Status is one of the enumerated values.
func validateTrip(t domain.Trip) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if t.StartDate.After(t.EndDate) {
		return fmt.Errorf("%w: start_date must not be after end_date", domain.ErrValidation)
	}
	if err := validateAmount("total_budget", t.TotalBudget); err != nil {
		return err
	}
	if !isCurrencyCode(t.Currency) {
		return fmt.Errorf("%w: currency must be a three-letter code", domain.ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: status must be one of Planning, Active, Completed", domain.ErrValidation)
	}
	return nil
}

// maxAmount is the first value that no longer fits a NUMERIC(14,2) column.
const maxAmount = 1e12

func validateAmount(field string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrValidation, field)
	}
	if v >= maxAmount {
		return fmt.Errorf("%w: %s must be less than 1000000000000", domain.ErrValidation, field)
	}
	return nil
}

// isCurrencyCode reports whether c is three upper-case ASCII letters.
func isCurrencyCode(c string) bool {
	if len(c) != 3 {
		return false
	}
	for i := range len(c) {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}
