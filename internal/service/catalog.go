package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/repo"
)

// CatalogService exposes the read-only City and Activity reference data.
type CatalogService struct {
	catalog repo.CatalogRepo
}

// NewCatalogService constructs a CatalogService backed by the provided CatalogRepo.
func NewCatalogService(catalog repo.CatalogRepo) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListCities returns cities matching filter, most popular first.
// Always returns a non-nil slice.
func (s *CatalogService) ListCities(ctx context.Context, filter domain.CityFilter) ([]domain.City, error) {
	filter.Region = strings.TrimSpace(filter.Region)
	filter.Search = strings.TrimSpace(filter.Search)

	cities, err := s.catalog.ListCities(ctx, filter)
	if err != nil {
		return nil, wrap("service.CatalogService.ListCities", err)
	}
	if cities == nil {
		return []domain.City{}, nil
	}
	return cities, nil
}

func (s *CatalogService) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	city, err := s.catalog.GetCity(ctx, id)
	if err != nil {
		return domain.City{}, wrap("service.CatalogService.GetCity", err)
	}
	return city, nil
}

func (s *CatalogService) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	a, err := s.catalog.GetActivity(ctx, id)
	if err != nil {
		return domain.Activity{}, wrap("service.CatalogService.GetActivity", err)
	}
	return a, nil
}

// ListActivities returns a city's activities, best rated first.
// Returns domain.ErrNotFound if the city does not exist.
func (s *CatalogService) ListActivities(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error) {
	const op = "service.CatalogService.ListActivities"

	if _, err := s.catalog.GetCity(ctx, cityID); err != nil {
		return nil, wrap(op, err)
	}
	activities, err := s.catalog.ListActivitiesByCity(ctx, cityID)
	if err != nil {
		return nil, wrap(op, err)
	}
	if activities == nil {
		return []domain.Activity{}, nil
	}
	return activities, nil
}
