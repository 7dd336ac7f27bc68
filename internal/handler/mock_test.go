package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/internal/auth"
	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	list           func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	get            func(ctx context.Context, tripID, callerID uuid.UUID) (domain.TripDetail, error)
	create         func(ctx context.Context, ownerID uuid.UUID, in domain.TripInput) (domain.Trip, error)
	update         func(ctx context.Context, tripID, callerID uuid.UUID, u domain.TripUpdate) (domain.Trip, error)
	delete         func(ctx context.Context, tripID, callerID uuid.UUID) error
	addStop        func(ctx context.Context, tripID, callerID uuid.UUID, in domain.StopInput) (domain.Stop, error)
	updateStop     func(ctx context.Context, tripID, stopID, callerID uuid.UUID, u domain.StopUpdate) (domain.Stop, error)
	deleteStop     func(ctx context.Context, tripID, stopID, callerID uuid.UUID) error
	addActivity    func(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error)
	removeActivity func(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error)
}

func (m *mockTripServicer) List(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	return m.list(ctx, ownerID, p)
}
func (m *mockTripServicer) Get(ctx context.Context, tripID, callerID uuid.UUID) (domain.TripDetail, error) {
	return m.get(ctx, tripID, callerID)
}
func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, in domain.TripInput) (domain.Trip, error) {
	return m.create(ctx, ownerID, in)
}
func (m *mockTripServicer) Update(ctx context.Context, tripID, callerID uuid.UUID, u domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, tripID, callerID, u)
}
func (m *mockTripServicer) Delete(ctx context.Context, tripID, callerID uuid.UUID) error {
	return m.delete(ctx, tripID, callerID)
}
func (m *mockTripServicer) AddStop(ctx context.Context, tripID, callerID uuid.UUID, in domain.StopInput) (domain.Stop, error) {
	return m.addStop(ctx, tripID, callerID, in)
}
func (m *mockTripServicer) UpdateStop(ctx context.Context, tripID, stopID, callerID uuid.UUID, u domain.StopUpdate) (domain.Stop, error) {
	return m.updateStop(ctx, tripID, stopID, callerID, u)
}
func (m *mockTripServicer) DeleteStop(ctx context.Context, tripID, stopID, callerID uuid.UUID) error {
	return m.deleteStop(ctx, tripID, stopID, callerID)
}
func (m *mockTripServicer) AddActivity(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error) {
	return m.addActivity(ctx, tripID, stopID, activityID, callerID)
}
func (m *mockTripServicer) RemoveActivity(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error) {
	return m.removeActivity(ctx, tripID, stopID, activityID, callerID)
}

// mockCatalogServicer is a test double for handler.CatalogServicer.
type mockCatalogServicer struct {
	listCities     func(ctx context.Context, f domain.CityFilter) ([]domain.City, error)
	getCity        func(ctx context.Context, id uuid.UUID) (domain.City, error)
	getActivity    func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	listActivities func(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error)
}

func (m *mockCatalogServicer) ListCities(ctx context.Context, f domain.CityFilter) ([]domain.City, error) {
	return m.listCities(ctx, f)
}
func (m *mockCatalogServicer) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	return m.getCity(ctx, id)
}
func (m *mockCatalogServicer) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getActivity(ctx, id)
}
func (m *mockCatalogServicer) ListActivities(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error) {
	return m.listActivities(ctx, cityID)
}

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, ownerID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer    = (*mockTripServicer)(nil)
	_ handler.CatalogServicer = (*mockCatalogServicer)(nil)
	_ handler.ExportServicer  = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testSecret = "handler-test-secret"

var testAuth = auth.New(testSecret, time.Hour)

// testEnv is a router wired with mocks plus an owner and their token.
type testEnv struct {
	handler http.Handler
	owner   uuid.UUID
	token   string
}

// newEnv wires a Server with the given mocks into its chi router. This mirrors
// how main.go wires it in production. Nil deps are replaced by empty mocks.
func newEnv(t *testing.T, deps handler.Deps) *testEnv {
	t.Helper()
	if deps.Trips == nil {
		deps.Trips = &mockTripServicer{}
	}
	if deps.Catalog == nil {
		deps.Catalog = &mockCatalogServicer{}
	}
	if deps.Export == nil {
		deps.Export = &mockExportServicer{}
	}
	deps.Auth = testAuth
	deps.Logger = slog.New(slog.DiscardHandler)

	owner := uuid.New()
	token, err := testAuth.Issue(owner)
	require.NoError(t, err)
	return &testEnv{handler: handler.NewServer(deps).Routes(), owner: owner, token: token}
}

// with rewires the router around deps and keeps the same owner and token, for
// tests whose fixtures need the owner before the mocks exist.
func (e *testEnv) with(t *testing.T, deps handler.Deps) *testEnv {
	t.Helper()
	next := newEnv(t, deps)
	next.owner, next.token = e.owner, e.token
	return next
}

// do sends an authenticated request. body, when non-nil, is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doRaw(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// doAnon sends a request without credentials.
func (e *testEnv) doAnon(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, newRequest(t, method, path, body))
	return rec
}

func newRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	tokyo = domain.City{
		ID: uuid.MustParse("c1000000-0000-4000-8000-000000000002"), Name: "Tokyo", Country: "Japan", Region: "Asia",
		DailyCost: 5500, Popularity: 92, Coordinates: &domain.Coordinates{Latitude: 35.6762, Longitude: 139.6503},
	}
	paris = domain.City{
		ID: uuid.MustParse("c1000000-0000-4000-8000-000000000001"), Name: "Paris", Country: "France", Region: "Europe",
		DailyCost: 4500, Popularity: 95, Coordinates: &domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
	}
	foodTour = domain.Activity{
		ID: uuid.MustParse("a1000000-0000-4000-8000-000000000003"), CityID: tokyo.ID, Name: "Tokyo Food Tour",
		Category: domain.CategoryFood, DurationHours: 3, Cost: 5000, Rating: 4.9,
	}
)

func tripFixture(owner uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		OwnerID:     owner,
		Name:        "Japan 2024",
		StartDate:   day(2024, 4, 1),
		EndDate:     day(2024, 4, 10),
		StopIDs:     []uuid.UUID{},
		TotalBudget: 100000,
		Currency:    "INR",
		Status:      domain.TripStatusPlanning,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func stopFixture(tripID uuid.UUID, city domain.City) domain.Stop {
	return domain.Stop{
		ID:          uuid.New(),
		TripID:      tripID,
		CityID:      city.ID,
		City:        city.Name,
		Country:     city.Country,
		StartDate:   day(2024, 4, 1),
		EndDate:     day(2024, 4, 5),
		ActivityIDs: []uuid.UUID{},
	}
}
