package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types. JSON field names are snake_case; dates are "YYYY-MM-DD".
// These are the only shapes the HTTP layer reads or writes; the OpenAPI
// document is reflected from them.

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"trip not found"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ---- catalog ---------------------------------------------------------------

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type City struct {
	ID             openapi_types.UUID `json:"id"`
	Name           string             `json:"name"`
	Country        string             `json:"country"`
	Region         string             `json:"region"`
	DailyCostIndex float64            `json:"daily_cost_index"`
	Popularity     int                `json:"popularity" minimum:"0" maximum:"100"`
	Description    string             `json:"description,omitempty"`
	ImageURL       string             `json:"image_url,omitempty"`
	Coordinates    *Coordinates       `json:"coordinates,omitempty"`
}

type Activity struct {
	ID            openapi_types.UUID `json:"id"`
	CityID        openapi_types.UUID `json:"city_id"`
	Name          string             `json:"name"`
	Category      string             `json:"category" enum:"Sightseeing,Food,Adventure,Entertainment,Shopping,Sports"`
	DurationHours float64            `json:"duration_hours"`
	Cost          float64            `json:"cost"`
	Rating        float64            `json:"rating" minimum:"0" maximum:"5"`
	Description   string             `json:"description,omitempty"`
	ImageURL      string             `json:"image_url,omitempty"`
}

// ---- trips -----------------------------------------------------------------

type Trip struct {
	ID          openapi_types.UUID   `json:"id"`
	OwnerID     openapi_types.UUID   `json:"owner_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	StartDate   openapi_types.Date   `json:"start_date"`
	EndDate     openapi_types.Date   `json:"end_date"`
	StopIDs     []openapi_types.UUID `json:"stop_ids"`
	TotalBudget float64              `json:"total_budget"`
	Currency    string               `json:"currency" example:"INR"`
	Status      string               `json:"status" enum:"Planning,Active,Completed"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type CreateTripRequest struct {
	Name        string              `json:"name" required:"true"`
	Description *string             `json:"description,omitempty"`
	StartDate   *openapi_types.Date `json:"start_date" required:"true"`
	EndDate     *openapi_types.Date `json:"end_date" required:"true"`
	TotalBudget *float64            `json:"total_budget,omitempty"`
	Currency    *string             `json:"currency,omitempty"`
}

// UpdateTripRequest lists every field a caller may change. It has no id or
// owner_id: those keys in a request body are ignored.
type UpdateTripRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	StartDate   *openapi_types.Date `json:"start_date,omitempty"`
	EndDate     *openapi_types.Date `json:"end_date,omitempty"`
	TotalBudget *float64            `json:"total_budget,omitempty"`
	Currency    *string             `json:"currency,omitempty"`
	Status      *string             `json:"status,omitempty" enum:"Planning,Active,Completed"`
}

type BudgetSummary struct {
	TotalBudget    float64 `json:"total_budget"`
	Currency       string  `json:"currency"`
	StopsEstimated float64 `json:"stops_estimated"`
	ActivitiesCost float64 `json:"activities_cost"`
	Planned        float64 `json:"planned"`
	Remaining      float64 `json:"remaining"`
	Days           int     `json:"days"`
	DailyAverage   float64 `json:"daily_average"`
}

type TripDetail struct {
	Trip
	Stops  []StopDetail  `json:"stops"`
	Budget BudgetSummary `json:"budget"`
}

// ---- stops -----------------------------------------------------------------

type Stop struct {
	ID              openapi_types.UUID   `json:"id"`
	TripID          openapi_types.UUID   `json:"trip_id"`
	CityID          openapi_types.UUID   `json:"city_id"`
	City            string               `json:"city"`
	Country         string               `json:"country"`
	StartDate       openapi_types.Date   `json:"start_date"`
	EndDate         openapi_types.Date   `json:"end_date"`
	ActivityIDs     []openapi_types.UUID `json:"activity_ids"`
	EstimatedBudget float64              `json:"estimated_budget"`
	Notes           string               `json:"notes"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// StopDetail is a stop with its catalog city (null when the city is gone)
// and the activities that still resolve.
type StopDetail struct {
	Stop
	CityDetail *City      `json:"city_detail"`
	Activities []Activity `json:"activities"`
}

type CreateStopRequest struct {
	CityID    *openapi_types.UUID `json:"city_id" required:"true"`
	City      *string             `json:"city,omitempty"`
	Country   *string             `json:"country,omitempty"`
	StartDate *openapi_types.Date `json:"start_date" required:"true"`
	EndDate   *openapi_types.Date `json:"end_date" required:"true"`
	Notes     *string             `json:"notes,omitempty"`
}

type UpdateStopRequest struct {
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	EstimatedBudget *float64            `json:"estimated_budget,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

// ---- export ----------------------------------------------------------------

type ExportRow struct {
	TripID          openapi_types.UUID  `json:"trip_id"`
	TripName        string              `json:"trip_name"`
	TripStatus      string              `json:"trip_status"`
	TripStartDate   openapi_types.Date  `json:"trip_start_date"`
	TripEndDate     openapi_types.Date  `json:"trip_end_date"`
	TotalBudget     float64             `json:"total_budget"`
	Currency        string              `json:"currency"`
	StopCity        *string             `json:"stop_city,omitempty"`
	StopCountry     *string             `json:"stop_country,omitempty"`
	StopStartDate   *openapi_types.Date `json:"stop_start_date,omitempty"`
	StopEndDate     *openapi_types.Date `json:"stop_end_date,omitempty"`
	EstimatedBudget *float64            `json:"estimated_budget,omitempty"`
	StopNotes       *string             `json:"stop_notes,omitempty"`
	Activities      []string            `json:"activities"`
}

// ---- health ----------------------------------------------------------------

type CheckResult struct {
	Status string `json:"status" enum:"ok,error"`
}

type HealthResponse struct {
	Status string                 `json:"status" enum:"ok,degraded"`
	Checks map[string]CheckResult `json:"checks"`
}
