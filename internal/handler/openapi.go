package handler

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

const bearerAuth = "bearerAuth"

// Parameter shapes for the reflected document. Handlers bind these
// parameters directly; the structs only describe them.
type (
	tripPath struct {
		TripID string `path:"tripId" format:"uuid"`
	}
	stopPath struct {
		TripID string `path:"tripId" format:"uuid"`
		StopID string `path:"stopId" format:"uuid"`
	}
	stopActivityPath struct {
		TripID     string `path:"tripId" format:"uuid"`
		StopID     string `path:"stopId" format:"uuid"`
		ActivityID string `path:"activityId" format:"uuid"`
	}
	cityPath struct {
		CityID string `path:"cityId" format:"uuid"`
	}
	activityPath struct {
		ActivityID string `path:"activityId" format:"uuid"`
	}
	listTripsQuery struct {
		Page  int `query:"page" minimum:"1" default:"1"`
		Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
	}
	listCitiesQuery struct {
		Region string `query:"region" description:"Exact region, case-insensitive."`
		Search string `query:"search" description:"Substring of the city name or country."`
	}
	exportQuery struct {
		Format string `query:"format" enum:"json,csv" default:"json"`
	}
)

// operation describes one route for the reflector.
type operation struct {
	method, path, summary string
	secured               bool
	req                   []any
	resp                  map[int]any
	contentType           string
}

var operations = []operation{
	{method: http.MethodGet, path: "/healthz", summary: "Health check",
		resp: map[int]any{http.StatusOK: HealthResponse{}, http.StatusServiceUnavailable: HealthResponse{}}},

	{method: http.MethodGet, path: "/cities", summary: "List catalog cities, most popular first",
		req:  []any{listCitiesQuery{}},
		resp: map[int]any{http.StatusOK: []City{}}},
	{method: http.MethodGet, path: "/cities/{cityId}", summary: "Get a city",
		req:  []any{cityPath{}},
		resp: map[int]any{http.StatusOK: City{}, http.StatusNotFound: ErrorResponse{}}},
	{method: http.MethodGet, path: "/cities/{cityId}/activities", summary: "List a city's activities, best rated first",
		req:  []any{cityPath{}},
		resp: map[int]any{http.StatusOK: []Activity{}, http.StatusNotFound: ErrorResponse{}}},
	{method: http.MethodGet, path: "/activities/{activityId}", summary: "Get an activity",
		req:  []any{activityPath{}},
		resp: map[int]any{http.StatusOK: Activity{}, http.StatusNotFound: ErrorResponse{}}},

	{method: http.MethodGet, path: "/trips", summary: "List the caller's trips, newest first", secured: true,
		req:  []any{listTripsQuery{}},
		resp: map[int]any{http.StatusOK: TripList{}}},
	{method: http.MethodPost, path: "/trips", summary: "Create a trip", secured: true,
		req:  []any{CreateTripRequest{}},
		resp: map[int]any{http.StatusCreated: Trip{}, http.StatusUnprocessableEntity: ErrorResponse{}}},
	{method: http.MethodGet, path: "/trips/{tripId}", summary: "Get a trip with its stops and budget", secured: true,
		req:  []any{tripPath{}},
		resp: map[int]any{http.StatusOK: TripDetail{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}}},
	{method: http.MethodPut, path: "/trips/{tripId}", summary: "Update a trip", secured: true,
		req:  []any{tripPath{}, UpdateTripRequest{}},
		resp: map[int]any{http.StatusOK: Trip{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}, http.StatusUnprocessableEntity: ErrorResponse{}}},
	{method: http.MethodPatch, path: "/trips/{tripId}", summary: "Update a trip", secured: true,
		req:  []any{tripPath{}, UpdateTripRequest{}},
		resp: map[int]any{http.StatusOK: Trip{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}, http.StatusUnprocessableEntity: ErrorResponse{}}},
	{method: http.MethodDelete, path: "/trips/{tripId}", summary: "Delete a trip and its stops", secured: true,
		req:  []any{tripPath{}},
		resp: map[int]any{http.StatusNoContent: nil, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}}},
	{method: http.MethodGet, path: "/trips/{tripId}/route", summary: "Trip route as GeoJSON", secured: true,
		req:         []any{tripPath{}},
		resp:        map[int]any{http.StatusOK: map[string]any{}},
		contentType: "application/geo+json"},

	{method: http.MethodPost, path: "/trips/{tripId}/stops", summary: "Append a stop to a trip", secured: true,
		req:  []any{tripPath{}, CreateStopRequest{}},
		resp: map[int]any{http.StatusCreated: Stop{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}, http.StatusUnprocessableEntity: ErrorResponse{}}},
	{method: http.MethodPatch, path: "/trips/{tripId}/stops/{stopId}", summary: "Update a stop", secured: true,
		req:  []any{stopPath{}, UpdateStopRequest{}},
		resp: map[int]any{http.StatusOK: Stop{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}, http.StatusUnprocessableEntity: ErrorResponse{}}},
	{method: http.MethodDelete, path: "/trips/{tripId}/stops/{stopId}", summary: "Remove a stop from a trip", secured: true,
		req:  []any{stopPath{}},
		resp: map[int]any{http.StatusNoContent: nil, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}}},
	{method: http.MethodPost, path: "/trips/{tripId}/stops/{stopId}/activities/{activityId}", summary: "Add an activity to a stop", secured: true,
		req:  []any{stopActivityPath{}},
		resp: map[int]any{http.StatusOK: StopDetail{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}}},
	{method: http.MethodDelete, path: "/trips/{tripId}/stops/{stopId}/activities/{activityId}", summary: "Remove an activity from a stop", secured: true,
		req:  []any{stopActivityPath{}},
		resp: map[int]any{http.StatusOK: StopDetail{}, http.StatusForbidden: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}}},

	{method: http.MethodGet, path: "/export", summary: "Export every trip and stop as JSON or CSV", secured: true,
		req:  []any{exportQuery{}},
		resp: map[int]any{http.StatusOK: []ExportRow{}}},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Itinerary API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Trips, their ordered stops and activities, and the read-only city catalog.")
	r.Spec.SetHTTPBearerTokenSecurity(bearerAuth, "JWT", "Owner token. The subject is the owner's UUID.")

	for _, o := range operations {
		oc, err := r.NewOperationContext(o.method, o.path)
		if err != nil {
			continue
		}
		oc.SetSummary(o.summary)
		if o.secured {
			oc.AddSecurity(bearerAuth)
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
		}
		for _, req := range o.req {
			oc.AddReqStructure(req)
		}
		for status, body := range o.resp {
			opts := []openapi.ContentOption{openapi.WithHTTPStatus(status)}
			if o.contentType != "" && status < 300 {
				opts = append(opts, openapi.WithContentType(o.contentType))
			}
			oc.AddRespStructure(body, opts...)
		}
		_ = r.AddOperation(oc)
	}
	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
