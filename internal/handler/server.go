// Package handler implements the HTTP handlers for the Itinerary API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, stop.go, catalog.go, ...) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/swaggest/swgui/v5emb"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/middleware"
)

// TripServicer defines the aggregate operations the trip and stop handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching the database or service layer.
type TripServicer interface {
	List(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) (domain.Page[domain.Trip], error)
	Get(ctx context.Context, tripID, callerID uuid.UUID) (domain.TripDetail, error)
	Create(ctx context.Context, ownerID uuid.UUID, in domain.TripInput) (domain.Trip, error)
	Update(ctx context.Context, tripID, callerID uuid.UUID, u domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, tripID, callerID uuid.UUID) error

	AddStop(ctx context.Context, tripID, callerID uuid.UUID, in domain.StopInput) (domain.Stop, error)
	UpdateStop(ctx context.Context, tripID, stopID, callerID uuid.UUID, u domain.StopUpdate) (domain.Stop, error)
	DeleteStop(ctx context.Context, tripID, stopID, callerID uuid.UUID) error
	AddActivity(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error)
	RemoveActivity(ctx context.Context, tripID, stopID, activityID, callerID uuid.UUID) (domain.StopDetail, error)
}

// CatalogServicer defines the read-only catalog lookups.
type CatalogServicer interface {
	ListCities(ctx context.Context, filter domain.CityFilter) ([]domain.City, error)
	GetCity(ctx context.Context, id uuid.UUID) (domain.City, error)
	GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	ListActivities(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error)
}

// ExportServicer defines the business operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a plain function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// Deps groups the Server's collaborators.
type Deps struct {
	Trips   TripServicer
	Catalog CatalogServicer
	Export  ExportServicer
	Auth    middleware.Verifier
	Checks  map[string]Checker
	Logger  *slog.Logger
}

// Server serves every API endpoint. Build the router with Routes.
type Server struct {
	trips   TripServicer
	catalog CatalogServicer
	export  ExportServicer
	auth    middleware.Verifier
	checks  map[string]Checker
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:   d.Trips,
		catalog: d.Catalog,
		export:  d.Export,
		auth:    d.Auth,
		checks:  d.Checks,
		log:     log,
	}
}

// Routes returns the API router. Catalog, health and documentation routes are
// public; everything under /trips and /export requires a bearer token.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Itinerary API", "/openapi.json", "/docs"))

	r.Get("/cities", s.ListCities)
	r.Get("/cities/{cityId}", s.GetCity)
	r.Get("/cities/{cityId}/activities", s.ListCityActivities)
	r.Get("/activities/{activityId}", s.GetActivity)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireOwner(s.auth))

		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Patch("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/route", s.GetTripRoute)

			r.Post("/stops", s.AddStop)
			r.Patch("/stops/{stopId}", s.UpdateStop)
			r.Delete("/stops/{stopId}", s.DeleteStop)
			r.Post("/stops/{stopId}/activities/{activityId}", s.AddStopActivity)
			r.Delete("/stops/{stopId}/activities/{activityId}", s.RemoveStopActivity)
		})

		r.Get("/export", s.GetExport)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
