package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/itinerary/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a fake.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetForUpdate is GetByID plus a row lock held until the surrounding
	// transaction ends. Only meaningful on a repo bound to a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns one page of the owner's trips, newest first,
	// together with the owner's total trip count.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip (everything
	// except id, owner_id and created_at) and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	// The trip's stops must already be gone; the stops FK rejects the delete otherwise.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool (or a pgx.Tx via TxRunner); in tests pass
// a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, name, description, start_date, end_date, stop_ids,
		       total_budget, currency, status, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, name, description, start_date, end_date, stop_ids,
		                   total_budget, currency, status)
		VALUES (@owner_id, @name, @description, @start_date, @end_date, @stop_ids,
		        @total_budget, @currency, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":     trip.OwnerID,
		"name":         trip.Name,
		"description":  trip.Description,
		"start_date":   trip.StartDate,
		"end_date":     trip.EndDate,
		"stop_ids":     toPgUUIDs(trip.StopIDs),
		"total_budget": trip.TotalBudget,
		"currency":     trip.Currency,
		"status":       string(trip.Status),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetForUpdate: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips WHERE owner_id = @owner_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"owner_id": ownerID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: count: %w", mapError(err))
	}

	// id breaks ties so paging is stable when two trips share created_at.
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"owner_id": ownerID,
		"limit":    params.Limit,
		"offset":   params.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: %w", mapError(err))
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", mapError(err))
	}

	return trips, total, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name         = @name,
		    description  = @description,
		    start_date   = @start_date,
		    end_date     = @end_date,
		    stop_ids     = @stop_ids,
		    total_budget = @total_budget,
		    currency     = @currency,
		    status       = @status,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":           trip.ID,
		"name":         trip.Name,
		"description":  trip.Description,
		"start_date":   trip.StartDate,
		"end_date":     trip.EndDate,
		"stop_ids":     toPgUUIDs(trip.StopIDs),
		"total_budget": trip.TotalBudget,
		"currency":     trip.Currency,
		"status":       string(trip.Status),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id, owner pgtype.UUID
		start     pgtype.Date
		end       pgtype.Date
		stopIDs   []pgtype.UUID
		status    string
	)

	err := s.Scan(&id, &owner, &t.Name, &t.Description, &start, &end, &stopIDs,
		&t.TotalBudget, &t.Currency, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, mapError(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.StopIDs = fromPgUUIDs(stopIDs)
	t.Status = domain.TripStatus(status)

	return t, nil
}
