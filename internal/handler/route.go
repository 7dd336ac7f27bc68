package handler

import (
	"encoding/json"
	"net/http"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/pkordes/itinerary/internal/domain"
)

// GetTripRoute handles GET /trips/{tripId}/route.
// It returns a GeoJSON FeatureCollection with one Point per stop whose city
// has coordinates, in visiting order, followed by a LineString through them
// when there are at least two.
func (s *Server) GetTripRoute(w http.ResponseWriter, r *http.Request) {
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
	fc, err := routeFeatures(detail)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	data, err := json.Marshal(fc)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// routeFeatures builds the trip's route. Coordinates are [longitude, latitude]
// as GeoJSON requires.
func routeFeatures(d domain.TripDetail) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	var path []geom.Coord

	for i, sd := range d.Stops {
		if sd.City == nil || sd.City.Coordinates == nil {
			continue
		}
		c := geom.Coord{sd.City.Coordinates.Longitude, sd.City.Coordinates.Latitude}
		pt, err := geom.NewPoint(geom.XY).SetCoords(c)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       sd.Stop.ID.String(),
			Geometry: pt,
			Properties: map[string]any{
				"kind":       "stop",
				"sequence":   i + 1,
				"city":       sd.Stop.City,
				"country":    sd.Stop.Country,
				"start_date": sd.Stop.StartDate.Format("2006-01-02"),
				"end_date":   sd.Stop.EndDate.Format("2006-01-02"),
			},
		})
		path = append(path, c)
	}

	if len(path) >= 2 {
		line, err := geom.NewLineString(geom.XY).SetCoords(path)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       d.Trip.ID.String(),
			Geometry: line,
			Properties: map[string]any{
				"kind": "route",
				"name": d.Trip.Name,
			},
		})
	}
	return fc, nil
}
