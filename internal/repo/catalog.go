package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/itinerary/internal/domain"
)

// CatalogRepo reads the City and Activity reference data.
// The catalog is seeded by migration and never written by the API.
type CatalogRepo interface {
	// GetCity returns domain.ErrNotFound if no city has that ID.
	GetCity(ctx context.Context, id uuid.UUID) (domain.City, error)

	// ListCities returns cities matching filter, most popular first.
	ListCities(ctx context.Context, filter domain.CityFilter) ([]domain.City, error)

	// GetActivity returns domain.ErrNotFound if no activity has that ID.
	GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// ListActivitiesByCity returns a city's activities, best rated first.
	ListActivitiesByCity(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error)

	// GetActivitiesByIDs returns the activities that exist among ids, in no
	// particular order. Unknown IDs are skipped, not reported.
	GetActivitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error)
}

type pgCatalogRepo struct {
	db db
}

// NewCatalogRepo constructs a CatalogRepo backed by the provided db connection.
func NewCatalogRepo(db db) CatalogRepo {
	return &pgCatalogRepo{db: db}
}

const (
	cityColumns = `id, name, country, region, daily_cost, popularity, description,
		       image_url, latitude, longitude`
	activityColumns = `id, city_id, name, category, duration_hours, cost, rating,
		       description, image_url`
)

func (r *pgCatalogRepo) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	const q = `SELECT ` + cityColumns + ` FROM cities WHERE id = @id`

	c, err := scanCity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.City{}, fmt.Errorf("repo.CatalogRepo.GetCity: %w", mapError(err))
	}
	return c, nil
}

func (r *pgCatalogRepo) ListCities(ctx context.Context, filter domain.CityFilter) ([]domain.City, error) {
	const q = `
		SELECT ` + cityColumns + `
		FROM cities
		WHERE (@region::text = '' OR region ILIKE @region::text)
		  AND (@search::text = ''
		       OR name ILIKE '%' || @search::text || '%'
		       OR country ILIKE '%' || @search::text || '%')
		ORDER BY popularity DESC, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"region": filter.Region, "search": filter.Search})
	if err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ListCities: %w", mapError(err))
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CatalogRepo.ListCities: scan: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ListCities: rows: %w", mapError(err))
	}
	return cities, nil
}

func (r *pgCatalogRepo) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	const q = `SELECT ` + activityColumns + ` FROM activities WHERE id = @id`

	a, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.CatalogRepo.GetActivity: %w", mapError(err))
	}
	return a, nil
}

func (r *pgCatalogRepo) ListActivitiesByCity(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE city_id = @city_id
		ORDER BY rating DESC, name`

	return r.queryActivities(ctx, "ListActivitiesByCity", q, pgx.NamedArgs{"city_id": cityID})
}

func (r *pgCatalogRepo) GetActivitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	if len(ids) == 0 {
		return []domain.Activity{}, nil
	}
	const q = `SELECT ` + activityColumns + ` FROM activities WHERE id = ANY(@ids)`

	return r.queryActivities(ctx, "GetActivitiesByIDs", q, pgx.NamedArgs{"ids": toPgUUIDs(ids)})
}

func (r *pgCatalogRepo) queryActivities(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Activity, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.%s: %w", op, mapError(err))
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CatalogRepo.%s: scan: %w", op, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.%s: rows: %w", op, mapError(err))
	}
	return activities, nil
}

func scanCity(s scanner) (domain.City, error) {
	var (
		c        domain.City
		id       pgtype.UUID
		lat, lng pgtype.Float8
	)
	err := s.Scan(&id, &c.Name, &c.Country, &c.Region, &c.DailyCost, &c.Popularity,
		&c.Description, &c.ImageURL, &lat, &lng)
	if err != nil {
		return domain.City{}, mapError(err)
	}
	c.ID = uuid.UUID(id.Bytes)
	if lat.Valid && lng.Valid {
		c.Coordinates = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return c, nil
}

func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a          domain.Activity
		id, cityID pgtype.UUID
		category   string
	)
	err := s.Scan(&id, &cityID, &a.Name, &category, &a.DurationHours, &a.Cost, &a.Rating,
		&a.Description, &a.ImageURL)
	if err != nil {
		return domain.Activity{}, mapError(err)
	}
	a.ID = uuid.UUID(id.Bytes)
	a.CityID = uuid.UUID(cityID.Bytes)
	a.Category = domain.ActivityCategory(category)
	return a, nil
}
