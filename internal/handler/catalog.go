package handler

import (
	"net/http"

	"github.com/pkordes/itinerary/internal/domain"
)

// ListCities handles GET /cities. ?region= narrows by region and ?search=
// matches name or country.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	var region, search *string
	if err := queryParam(r, "region", &region); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := queryParam(r, "search", &search); err != nil {
		badRequest(w, err.Error())
		return
	}

	cities, err := s.catalog.ListCities(r.Context(), domain.CityFilter{Region: deref(region), Search: deref(search)})
	if err != nil {
		s.fail(w, r, err, "city")
		return
	}
	out := make([]City, len(cities))
	for i, c := range cities {
		out[i] = cityToResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCity handles GET /cities/{cityId}.
func (s *Server) GetCity(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "cityId")
	if !ok {
		return
	}
	city, err := s.catalog.GetCity(r.Context(), ids[0])
	if err != nil {
		s.fail(w, r, err, "city")
		return
	}
	writeJSON(w, http.StatusOK, cityToResponse(city))
}

// ListCityActivities handles GET /cities/{cityId}/activities.
func (s *Server) ListCityActivities(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "cityId")
	if !ok {
		return
	}
	activities, err := s.catalog.ListActivities(r.Context(), ids[0])
	if err != nil {
		s.fail(w, r, err, "city")
		return
	}
	out := make([]Activity, len(activities))
	for i, a := range activities {
		out[i] = activityToResponse(a)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetActivity handles GET /activities/{activityId}.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "activityId")
	if !ok {
		return
	}
	a, err := s.catalog.GetActivity(r.Context(), ids[0])
	if err != nil {
		s.fail(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(a))
}

func cityToResponse(c domain.City) City {
	out := City{
		ID:             c.ID,
		Name:           c.Name,
		Country:        c.Country,
		Region:         c.Region,
		DailyCostIndex: c.DailyCost,
		Popularity:     c.Popularity,
		Description:    c.Description,
		ImageURL:       c.ImageURL,
	}
	if c.Coordinates != nil {
		out.Coordinates = &Coordinates{Latitude: c.Coordinates.Latitude, Longitude: c.Coordinates.Longitude}
	}
	return out
}

func activityToResponse(a domain.Activity) Activity {
	return Activity{
		ID:            a.ID,
		CityID:        a.CityID,
		Name:          a.Name,
		Category:      string(a.Category),
		DurationHours: a.DurationHours,
		Cost:          a.Cost,
		Rating:        a.Rating,
		Description:   a.Description,
		ImageURL:      a.ImageURL,
	}
}
