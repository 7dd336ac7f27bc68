package domain

import (
	"github.com/google/uuid"
)

// ActivityCategory groups catalog activities for browsing.
type ActivityCategory string

const (
	CategorySightseeing   ActivityCategory = "Sightseeing"
	CategoryFood          ActivityCategory = "Food"
	CategoryAdventure     ActivityCategory = "Adventure"
	CategoryEntertainment ActivityCategory = "Entertainment"
	CategoryShopping      ActivityCategory = "Shopping"
	CategorySports        ActivityCategory = "Sports"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// City is read-only reference data. Trips never own cities.
// DailyCost is the typical per-day spend in the default currency.
type City struct {
	ID          uuid.UUID
	Name        string
	Country     string
	Region      string
	DailyCost   float64
	Popularity  int
	Description string
	ImageURL    string
	Coordinates *Coordinates
}

// Activity is a bookable experience in a city. Stops reference activities by ID.
type Activity struct {
	ID            uuid.UUID
	CityID        uuid.UUID
	Name          string
	Category      ActivityCategory
	DurationHours float64
	Cost          float64
	Rating        float64
	Description   string
	ImageURL      string
}

// CityFilter narrows a city listing. Empty fields match everything.
// Search matches city name or country, case-insensitively.
type CityFilter struct {
	Region string
	Search string
}
