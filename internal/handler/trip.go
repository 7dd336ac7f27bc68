package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary/internal/domain"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var body CreateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), ownerID, requestToTripInput(body))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var page, limit *int
	if err := queryParam(r, "page", &page); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		badRequest(w, err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	result, err := s.trips.List(r.Context(), ownerID, params)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	data := make([]Trip, len(result.Items))
	for i, t := range result.Items {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(result.Total),
		},
	})
}

// GetTrip handles GET /trips/{tripId}. The response embeds the ordered stops,
// their catalog data, and the budget summary.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	detail, err := s.trips.Get(r.Context(), ids[0], ownerID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripDetailToResponse(detail))
}

// UpdateTrip handles PUT and PATCH /trips/{tripId}. Both are partial: absent
// fields are left untouched.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	var body UpdateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := requestToTripUpdate(body)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	updated, err := s.trips.Update(r.Context(), ids[0], ownerID, u)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}. The trip's stops go with it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), ids[0], ownerID); err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTripInput converts a CreateTripRequest body into a domain.TripInput.
// Missing dates stay zero and are rejected by the service.
func requestToTripInput(body CreateTripRequest) domain.TripInput {
	in := domain.TripInput{
		Name:        body.Name,
		Description: deref(body.Description),
		Currency:    deref(body.Currency),
		TotalBudget: deref(body.TotalBudget),
	}
	if body.StartDate != nil {
		in.StartDate = body.StartDate.Time
	}
	if body.EndDate != nil {
		in.EndDate = body.EndDate.Time
	}
	return in
}

// requestToTripUpdate copies the whitelisted fields of body. Status is parsed
// case-insensitively here so the service only ever sees canonical values.
func requestToTripUpdate(body UpdateTripRequest) (domain.TripUpdate, error) {
	u := domain.TripUpdate{
		Name:        body.Name,
		Description: body.Description,
		TotalBudget: body.TotalBudget,
		Currency:    body.Currency,
		StartDate:   dateTime(body.StartDate),
		EndDate:     dateTime(body.EndDate),
	}
	if body.Status != nil {
		st, err := domain.ParseTripStatus(strings.TrimSpace(*body.Status))
		if err != nil {
			return domain.TripUpdate{}, err
		}
		u.Status = &st
	}
	return u, nil
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		StopIDs:     nonNilIDs(t.StopIDs),
		TotalBudget: t.TotalBudget,
		Currency:    t.Currency,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tripDetailToResponse(d domain.TripDetail) TripDetail {
	stops := make([]StopDetail, len(d.Stops))
	for i, sd := range d.Stops {
		stops[i] = stopDetailToResponse(sd)
	}
	b := d.Budget
	return TripDetail{
		Trip:  tripToResponse(d.Trip),
		Stops: stops,
		Budget: BudgetSummary{
			TotalBudget:    b.TotalBudget,
			Currency:       b.Currency,
			StopsEstimated: b.StopsEstimated,
			ActivitiesCost: b.ActivitiesCost,
			Planned:        b.Planned,
			Remaining:      b.Remaining,
			Days:           b.Days,
			DailyAverage:   b.DailyAverage,
		},
	}
}

func nonNilIDs(ids []uuid.UUID) []openapi_types.UUID {
	if ids == nil {
		return []openapi_types.UUID{}
	}
	return ids
}

func dateTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
