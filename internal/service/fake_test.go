package service_test

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/repo"
	"github.com/pkordes/itinerary/internal/service"
)

// memStore is a stateful in-memory stand-in for the Postgres repos.
// InTx holds a store-wide write lock for the whole unit of work and restores
// a snapshot when fn fails, which is what the row lock plus rollback give the
// service in production. failOn injects an error into the named repo method.
type memStore struct {
	txMu sync.Mutex

	mu     sync.Mutex
	trips  map[uuid.UUID]domain.Trip
	stops  map[uuid.UUID]domain.Stop
	clock  time.Time
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		trips:  map[uuid.UUID]domain.Trip{},
		stops:  map[uuid.UUID]domain.Stop{},
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		failOn: map[string]error{},
	}
}

func (s *memStore) InTx(_ context.Context, fn func(repo.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	tripsSnap := maps.Clone(s.trips)
	stopsSnap := maps.Clone(s.stops)
	s.mu.Unlock()

	if err := fn(repo.Repos{Trips: memTripRepo{s}, Stops: memStopRepo{s}}); err != nil {
		s.mu.Lock()
		s.trips, s.stops = tripsSnap, stopsSnap
		s.mu.Unlock()
		return err
	}
	return nil
}

// fail returns the injected error for op, if any. Callers hold s.mu.
func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *memStore) trip(id uuid.UUID) (domain.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	return cloneTrip(t), ok
}

func (s *memStore) stopsOf(tripID uuid.UUID) []domain.Stop {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Stop
	for _, st := range s.stops {
		if st.TripID == tripID {
			out = append(out, cloneStop(st))
		}
	}
	return out
}

func cloneTrip(t domain.Trip) domain.Trip {
	t.StopIDs = slices.Clone(t.StopIDs)
	if t.StopIDs == nil {
		t.StopIDs = []uuid.UUID{}
	}
	return t
}

func cloneStop(st domain.Stop) domain.Stop {
	st.ActivityIDs = slices.Clone(st.ActivityIDs)
	if st.ActivityIDs == nil {
		st.ActivityIDs = []uuid.UUID{}
	}
	return st
}

type memTripRepo struct{ s *memStore }

func (r memTripRepo) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("trips.Create"); err != nil {
		return domain.Trip{}, err
	}
	t = cloneTrip(t)
	t.ID = uuid.New()
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	r.s.trips[t.ID] = t
	return cloneTrip(t), nil
}

func (r memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("trips.GetByID"); err != nil {
		return domain.Trip{}, err
	}
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r memTripRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r memTripRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("trips.ListByOwner"); err != nil {
		return nil, 0, err
	}
	var owned []domain.Trip
	for _, t := range r.s.trips {
		if t.OwnerID == ownerID {
			owned = append(owned, cloneTrip(t))
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	out := []domain.Trip{}
	for i := p.Offset(); i < len(owned) && len(out) < p.Limit; i++ {
		out = append(out, owned[i])
	}
	return out, int64(len(owned)), nil
}

func (r memTripRepo) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("trips.Update"); err != nil {
		return domain.Trip{}, err
	}
	old, ok := r.s.trips[t.ID]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	t = cloneTrip(t)
	t.OwnerID, t.CreatedAt = old.OwnerID, old.CreatedAt
	t.UpdatedAt = r.s.tick()
	r.s.trips[t.ID] = t
	return cloneTrip(t), nil
}

func (r memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("trips.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.trips[id]; !ok {
		return domain.ErrNotFound
	}
	for _, st := range r.s.stops {
		if st.TripID == id {
			return domain.ErrConflict // the stops FK in Postgres
		}
	}
	delete(r.s.trips, id)
	return nil
}

type memStopRepo struct{ s *memStore }

func (r memStopRepo) Create(_ context.Context, st domain.Stop) (domain.Stop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stops.Create"); err != nil {
		return domain.Stop{}, err
	}
	if _, ok := r.s.trips[st.TripID]; !ok {
		return domain.Stop{}, domain.ErrConflict
	}
	st = cloneStop(st)
	st.ID = uuid.New()
	st.CreatedAt = r.s.tick()
	st.UpdatedAt = st.CreatedAt
	r.s.stops[st.ID] = st
	return cloneStop(st), nil
}

func (r memStopRepo) GetByID(_ context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stops[stopID]
	if !ok || st.TripID != tripID {
		return domain.Stop{}, domain.ErrNotFound
	}
	return cloneStop(st), nil
}

func (r memStopRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stops.ListByTripID"); err != nil {
		return nil, err
	}
	out := []domain.Stop{}
	for _, st := range r.s.stops {
		if st.TripID == tripID {
			out = append(out, cloneStop(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memStopRepo) Update(_ context.Context, st domain.Stop) (domain.Stop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stops.Update"); err != nil {
		return domain.Stop{}, err
	}
	old, ok := r.s.stops[st.ID]
	if !ok || old.TripID != st.TripID {
		return domain.Stop{}, domain.ErrNotFound
	}
	st = cloneStop(st)
	st.CityID, st.City, st.Country, st.CreatedAt = old.CityID, old.City, old.Country, old.CreatedAt
	st.UpdatedAt = r.s.tick()
	r.s.stops[st.ID] = st
	return cloneStop(st), nil
}

func (r memStopRepo) Delete(_ context.Context, tripID, stopID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stops[stopID]
	if !ok || st.TripID != tripID {
		return domain.ErrNotFound
	}
	delete(r.s.stops, stopID)
	return nil
}

func (r memStopRepo) DeleteByTripID(_ context.Context, tripID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stops.DeleteByTripID"); err != nil {
		return 0, err
	}
	var n int64
	for id, st := range r.s.stops {
		if st.TripID == tripID {
			delete(r.s.stops, id)
			n++
		}
	}
	return n, nil
}

// memCatalog is an in-memory repo.CatalogRepo seeded with a few cities and
// activities.
type memCatalog struct {
	mu         sync.Mutex
	cities     map[uuid.UUID]domain.City
	activities map[uuid.UUID]domain.Activity
}

var (
	tokyo = domain.City{
		ID: uuid.MustParse("c1000000-0000-4000-8000-000000000002"), Name: "Tokyo", Country: "Japan",
		Region: "Asia", DailyCost: 5500, Popularity: 92,
		Coordinates: &domain.Coordinates{Latitude: 35.6762, Longitude: 139.6503},
	}
	paris = domain.City{
		ID: uuid.MustParse("c1000000-0000-4000-8000-000000000001"), Name: "Paris", Country: "France",
		Region: "Europe", DailyCost: 4500, Popularity: 95,
		Coordinates: &domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
	}
	foodTour = domain.Activity{
		ID: uuid.MustParse("a1000000-0000-4000-8000-000000000003"), CityID: tokyo.ID,
		Name: "Tokyo Food Tour", Category: domain.CategoryFood, DurationHours: 3, Cost: 5000, Rating: 4.9,
	}
	shibuya = domain.Activity{
		ID: uuid.MustParse("a1000000-0000-4000-8000-000000000004"), CityID: tokyo.ID,
		Name: "Shibuya Crossing Experience", Category: domain.CategorySightseeing, DurationHours: 1, Cost: 0, Rating: 4.6,
	}
	eiffel = domain.Activity{
		ID: uuid.MustParse("a1000000-0000-4000-8000-000000000001"), CityID: paris.ID,
		Name: "Eiffel Tower Visit", Category: domain.CategorySightseeing, DurationHours: 2, Cost: 2000, Rating: 4.8,
	}
)

func newMemCatalog() *memCatalog {
	return &memCatalog{
		cities: map[uuid.UUID]domain.City{tokyo.ID: tokyo, paris.ID: paris},
		activities: map[uuid.UUID]domain.Activity{
			foodTour.ID: foodTour, shibuya.ID: shibuya, eiffel.ID: eiffel,
		},
	}
}

func (c *memCatalog) removeCity(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cities, id)
}

func (c *memCatalog) removeActivity(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.activities, id)
}

func (c *memCatalog) GetCity(_ context.Context, id uuid.UUID) (domain.City, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	city, ok := c.cities[id]
	if !ok {
		return domain.City{}, domain.ErrNotFound
	}
	return city, nil
}

func (c *memCatalog) ListCities(_ context.Context, f domain.CityFilter) ([]domain.City, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []domain.City{}
	for _, city := range c.cities {
		if f.Region != "" && !strings.EqualFold(city.Region, f.Region) {
			continue
		}
		out = append(out, city)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	return out, nil
}

func (c *memCatalog) GetActivity(_ context.Context, id uuid.UUID) (domain.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.activities[id]
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	return a, nil
}

func (c *memCatalog) ListActivitiesByCity(_ context.Context, cityID uuid.UUID) ([]domain.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []domain.Activity{}
	for _, a := range c.activities {
		if a.CityID == cityID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (c *memCatalog) GetActivitiesByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []domain.Activity{}
	for _, id := range ids {
		if a, ok := c.activities[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// compile-time checks: the fakes must satisfy the repo interfaces.
var (
	_ repo.TxRunner    = (*memStore)(nil)
	_ repo.TripRepo    = memTripRepo{}
	_ repo.StopRepo    = memStopRepo{}
	_ repo.CatalogRepo = (*memCatalog)(nil)
)

// ---- wiring helpers --------------------------------------------------------

type fixture struct {
	store   *memStore
	catalog *memCatalog
	svc     *service.TripService
	owner   uuid.UUID
}

func newFixture() *fixture {
	store := newMemStore()
	catalog := newMemCatalog()
	svc := service.NewTripService(store, memTripRepo{store}, memStopRepo{store}, catalog, slog.New(slog.DiscardHandler))
	return &fixture{store: store, catalog: catalog, svc: svc, owner: uuid.New()}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func japanInput() domain.TripInput {
	return domain.TripInput{
		Name:        "Japan 2024",
		StartDate:   date(2024, 4, 1),
		EndDate:     date(2024, 4, 10),
		TotalBudget: 100000,
	}
}

func tokyoStop() domain.StopInput {
	return domain.StopInput{
		CityID:    tokyo.ID,
		StartDate: date(2024, 4, 1),
		EndDate:   date(2024, 4, 5),
	}
}

func ptr[T any](v T) *T { return &v }
