package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/repo"
	"github.com/pkordes/itinerary/internal/service"
)

// mockCatalogRepo is a hand-written test double for repo.CatalogRepo.
// Each method is a function field; set only the ones a test needs.
type mockCatalogRepo struct {
	getCity              func(ctx context.Context, id uuid.UUID) (domain.City, error)
	listCities           func(ctx context.Context, f domain.CityFilter) ([]domain.City, error)
	getActivity          func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	listActivitiesByCity func(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error)
	getActivitiesByIDs   func(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error)
}

func (m *mockCatalogRepo) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	return m.getCity(ctx, id)
}
func (m *mockCatalogRepo) ListCities(ctx context.Context, f domain.CityFilter) ([]domain.City, error) {
	return m.listCities(ctx, f)
}
func (m *mockCatalogRepo) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getActivity(ctx, id)
}
func (m *mockCatalogRepo) ListActivitiesByCity(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error) {
	return m.listActivitiesByCity(ctx, cityID)
}
func (m *mockCatalogRepo) GetActivitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	return m.getActivitiesByIDs(ctx, ids)
}

var _ repo.CatalogRepo = (*mockCatalogRepo)(nil)

func TestCatalogService_ListCities_TrimsFilter(t *testing.T) {
	var got domain.CityFilter
	svc := service.NewCatalogService(&mockCatalogRepo{
		listCities: func(_ context.Context, f domain.CityFilter) ([]domain.City, error) {
			got = f
			return []domain.City{tokyo}, nil
		},
	})

	cities, err := svc.ListCities(context.Background(), domain.CityFilter{Region: " Asia ", Search: "  tok "})

	require.NoError(t, err)
	assert.Equal(t, domain.CityFilter{Region: "Asia", Search: "tok"}, got)
	assert.Len(t, cities, 1)
}

func TestCatalogService_ListCities_NilBecomesEmpty(t *testing.T) {
	svc := service.NewCatalogService(&mockCatalogRepo{
		listCities: func(context.Context, domain.CityFilter) ([]domain.City, error) { return nil, nil },
	})

	cities, err := svc.ListCities(context.Background(), domain.CityFilter{})

	require.NoError(t, err)
	assert.NotNil(t, cities)
	assert.Empty(t, cities)
}

func TestCatalogService_ListCities_RepoError(t *testing.T) {
	svc := service.NewCatalogService(&mockCatalogRepo{
		listCities: func(context.Context, domain.CityFilter) ([]domain.City, error) {
			return nil, errors.New("pool closed")
		},
	})

	_, err := svc.ListCities(context.Background(), domain.CityFilter{})

	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestCatalogService_GetCity_NotFound(t *testing.T) {
	svc := service.NewCatalogService(&mockCatalogRepo{
		getCity: func(context.Context, uuid.UUID) (domain.City, error) { return domain.City{}, domain.ErrNotFound },
	})

	_, err := svc.GetCity(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrStore)
}

func TestCatalogService_GetActivity(t *testing.T) {
	svc := service.NewCatalogService(&mockCatalogRepo{
		getActivity: func(_ context.Context, id uuid.UUID) (domain.Activity, error) {
			if id == foodTour.ID {
				return foodTour, nil
			}
			return domain.Activity{}, domain.ErrNotFound
		},
	})

	got, err := svc.GetActivity(context.Background(), foodTour.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo Food Tour", got.Name)

	_, err = svc.GetActivity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_ListActivities_UnknownCity(t *testing.T) {
	listed := false
	svc := service.NewCatalogService(&mockCatalogRepo{
		getCity: func(context.Context, uuid.UUID) (domain.City, error) { return domain.City{}, domain.ErrNotFound },
		listActivitiesByCity: func(context.Context, uuid.UUID) ([]domain.Activity, error) {
			listed = true
			return nil, nil
		},
	})

	_, err := svc.ListActivities(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, listed, "activities are not listed for a city that does not exist")
}

func TestCatalogService_ListActivities_KnownCityWithNone(t *testing.T) {
	svc := service.NewCatalogService(&mockCatalogRepo{
		getCity:              func(context.Context, uuid.UUID) (domain.City, error) { return paris, nil },
		listActivitiesByCity: func(context.Context, uuid.UUID) ([]domain.Activity, error) { return nil, nil },
	})

	got, err := svc.ListActivities(context.Background(), paris.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
