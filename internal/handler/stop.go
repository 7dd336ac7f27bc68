package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary/internal/domain"
)

// AddStop handles POST /trips/{tripId}/stops. The stop is appended to the end
// of the trip's visiting order.
func (s *Server) AddStop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	var body CreateStopRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.CityID == nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "city_id is required")
		return
	}

	created, err := s.trips.AddStop(r.Context(), ids[0], ownerID, requestToStopInput(body))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, stopToResponse(created))
}

// UpdateStop handles PATCH /trips/{tripId}/stops/{stopId}.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId", "stopId")
	if !ok {
		return
	}
	var body UpdateStopRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.UpdateStop(r.Context(), ids[0], ids[1], ownerID, domain.StopUpdate{
		StartDate:       dateTime(body.StartDate),
		EndDate:         dateTime(body.EndDate),
		EstimatedBudget: body.EstimatedBudget,
		Notes:           body.Notes,
	})
	if err != nil {
		s.fail(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, stopToResponse(updated))
}

// DeleteStop handles DELETE /trips/{tripId}/stops/{stopId}.
// Deleting a stop that is already gone still returns 204.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId", "stopId")
	if !ok {
		return
	}

	if err := s.trips.DeleteStop(r.Context(), ids[0], ids[1], ownerID); err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddStopActivity handles POST /trips/{tripId}/stops/{stopId}/activities/{activityId}.
// Adding an activity twice is not an error; the stop lists it once.
func (s *Server) AddStopActivity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId", "stopId", "activityId")
	if !ok {
		return
	}

	detail, err := s.trips.AddActivity(r.Context(), ids[0], ids[1], ids[2], ownerID)
	if err != nil {
		s.fail(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, stopDetailToResponse(detail))
}

// RemoveStopActivity handles DELETE /trips/{tripId}/stops/{stopId}/activities/{activityId}.
func (s *Server) RemoveStopActivity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "tripId", "stopId", "activityId")
	if !ok {
		return
	}

	detail, err := s.trips.RemoveActivity(r.Context(), ids[0], ids[1], ids[2], ownerID)
	if err != nil {
		s.fail(w, r, err, "stop")
		return
	}
	writeJSON(w, http.StatusOK, stopDetailToResponse(detail))
}

// --- mapping helpers --------------------------------------------------------

func requestToStopInput(body CreateStopRequest) domain.StopInput {
	in := domain.StopInput{
		City:    deref(body.City),
		Country: deref(body.Country),
		Notes:   deref(body.Notes),
	}
	if body.CityID != nil {
		in.CityID = *body.CityID
	}
	if body.StartDate != nil {
		in.StartDate = body.StartDate.Time
	}
	if body.EndDate != nil {
		in.EndDate = body.EndDate.Time
	}
	return in
}

func stopToResponse(st domain.Stop) Stop {
	return Stop{
		ID:              st.ID,
		TripID:          st.TripID,
		CityID:          st.CityID,
		City:            st.City,
		Country:         st.Country,
		StartDate:       openapi_types.Date{Time: st.StartDate},
		EndDate:         openapi_types.Date{Time: st.EndDate},
		ActivityIDs:     nonNilIDs(st.ActivityIDs),
		EstimatedBudget: st.EstimatedBudget,
		Notes:           st.Notes,
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
	}
}

func stopDetailToResponse(sd domain.StopDetail) StopDetail {
	out := StopDetail{
		Stop:       stopToResponse(sd.Stop),
		Activities: make([]Activity, len(sd.Activities)),
	}
	if sd.City != nil {
		c := cityToResponse(*sd.City)
		out.CityDetail = &c
	}
	for i, a := range sd.Activities {
		out.Activities[i] = activityToResponse(a)
	}
	return out
}
