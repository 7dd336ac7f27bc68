package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/itinerary/internal/domain"
)

// StopRepo defines the persistence operations for Stops.
// All single-row operations are scoped by tripID so a stop can never be
// read or changed through a trip that does not own it.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)

	// ListByTripID returns all stops stored for a trip, oldest first.
	// Visiting order lives on the trip; callers reorder by Trip.StopIDs.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)

	// Update overwrites the mutable fields of a stop, scoped to its TripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Delete(ctx context.Context, tripID, stopID uuid.UUID) error

	// DeleteByTripID removes every stop of a trip and returns how many went.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error)
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, trip_id, city_id, city, country, start_date, end_date,
		       activity_ids, estimated_budget, notes, created_at, updated_at`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (trip_id, city_id, city, country, start_date, end_date,
		                   activity_ids, estimated_budget, notes)
		VALUES (@trip_id, @city_id, @city, @country, @start_date, @end_date,
		        @activity_ids, @estimated_budget, @notes)
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"trip_id":          stop.TripID,
		"city_id":          stop.CityID,
		"city":             stop.City,
		"country":          stop.Country,
		"start_date":       stop.StartDate,
		"end_date":         stop.EndDate,
		"activity_ids":     toPgUUIDs(stop.ActivityIDs),
		"estimated_budget": stop.EstimatedBudget,
		"notes":            stop.Notes,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE id = @id AND trip_id = @trip_id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", mapError(err))
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: rows: %w", mapError(err))
	}
	return stops, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET start_date       = @start_date,
		    end_date         = @end_date,
		    activity_ids     = @activity_ids,
		    estimated_budget = @estimated_budget,
		    notes            = @notes,
		    updated_at       = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"id":               stop.ID,
		"trip_id":          stop.TripID,
		"start_date":       stop.StartDate,
		"end_date":         stop.EndDate,
		"activity_ids":     toPgUUIDs(stop.ActivityIDs),
		"estimated_budget": stop.EstimatedBudget,
		"notes":            stop.Notes,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", mapError(err))
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	const q = `DELETE FROM stops WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgStopRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `DELETE FROM stops WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.StopRepo.DeleteByTripID: %w", mapError(err))
	}
	return tag.RowsAffected(), nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st                 domain.Stop
		id, tripID, cityID pgtype.UUID
		start, end         pgtype.Date
		activityIDs        []pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &cityID, &st.City, &st.Country, &start, &end,
		&activityIDs, &st.EstimatedBudget, &st.Notes, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return domain.Stop{}, mapError(err)
	}

	st.ID = uuid.UUID(id.Bytes)
	st.TripID = uuid.UUID(tripID.Bytes)
	st.CityID = uuid.UUID(cityID.Bytes)
	st.StartDate = start.Time
	st.EndDate = end.Time
	st.ActivityIDs = fromPgUUIDs(activityIDs)

	return st, nil
}
