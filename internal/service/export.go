package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/repo"
)

const (
	exportPageSize    = 100
	exportConcurrency = 4
)

// ExportService assembles a flat export of all of an owner's trips and stops.
type ExportService struct {
	trips   repo.TripRepo
	stops   repo.StopRepo
	catalog repo.CatalogRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, stops repo.StopRepo, catalog repo.CatalogRepo) *ExportService {
	return &ExportService{trips: trips, stops: stops, catalog: catalog}
}

// Export returns one ExportRow per stop across the owner's trips, newest trip
// first and stops in visiting order. Trips with no stops contribute one row
// with empty stop fields.
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	const op = "service.ExportService.Export"

	trips, err := s.allTrips(ctx, ownerID)
	if err != nil {
		return nil, wrap(op, err)
	}

	// Load every trip's stops concurrently; each goroutine owns one slot.
	stopsByTrip := make([][]domain.Stop, len(trips))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for i, trip := range trips {
		g.Go(func() error {
			stored, err := s.stops.ListByTripID(gctx, trip.ID)
			if err != nil {
				return err
			}
			stopsByTrip[i] = orderStops(trip.StopIDs, stored)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrap(op, err)
	}

	names, err := s.activityNames(ctx, stopsByTrip)
	if err != nil {
		return nil, wrap(op, err)
	}

	rows := []domain.ExportRow{}
	for i, trip := range trips {
		base := domain.ExportRow{
			TripID:        trip.ID.String(),
			TripName:      trip.Name,
			TripStatus:    string(trip.Status),
			TripStartDate: trip.StartDate.Format("2006-01-02"),
			TripEndDate:   trip.EndDate.Format("2006-01-02"),
			TotalBudget:   trip.TotalBudget,
			Currency:      trip.Currency,
		}
		if len(stopsByTrip[i]) == 0 {
			base.Activities = []string{}
			rows = append(rows, base)
			continue
		}
		for _, st := range stopsByTrip[i] {
			row := base
			start, end := st.StartDate, st.EndDate
			row.StopCity = st.City
			row.StopCountry = st.Country
			row.StopStartDate = &start
			row.StopEndDate = &end
			row.EstimatedBudget = st.EstimatedBudget
			row.StopNotes = st.Notes
			row.Activities = []string{}
			for _, id := range st.ActivityIDs {
				if name, ok := names[id]; ok {
					row.Activities = append(row.Activities, name)
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// allTrips pages through the owner's trips. The pages are read outside a
// transaction, so the result is not a snapshot: a trip created mid-export
// shifts later pages, and a trip seen twice is kept once.
func (s *ExportService) allTrips(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	var all []domain.Trip
	seen := map[uuid.UUID]bool{}
	for page := 1; ; page++ {
		params := domain.PaginationParams{Page: page, Limit: exportPageSize}
		trips, _, err := s.trips.ListByOwner(ctx, ownerID, params)
		if err != nil {
			return nil, err
		}
		for _, t := range trips {
			if !seen[t.ID] {
				seen[t.ID] = true
				all = append(all, t)
			}
		}
		if len(trips) < exportPageSize {
			return all, nil
		}
	}
}

// activityNames resolves every referenced activity with a single catalog call.
func (s *ExportService) activityNames(ctx context.Context, stopsByTrip [][]domain.Stop) (map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, stops := range stopsByTrip {
		for _, st := range stops {
			for _, id := range st.ActivityIDs {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}

	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	found, err := s.catalog.GetActivitiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range found {
		names[a.ID] = a.Name
	}
	return names, nil
}
