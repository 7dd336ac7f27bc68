package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_status", "trip_start_date", "trip_end_date",
	"total_budget", "currency",
	"stop_city", "stop_country", "stop_start_date", "stop_end_date",
	"estimated_budget", "stop_notes", "activities",
}

// GetExport handles GET /export.
// It returns a flat table with one row per stop across the caller's trips.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var format *string
	if err := queryParam(r, "format", &format); err != nil {
		badRequest(w, err.Error())
		return
	}
	f := strings.ToLower(deref(format))
	if f != "" && f != "csv" && f != "json" {
		badRequest(w, `format must be "csv" or "json"`)
		return
	}

	rows, err := s.export.Export(r.Context(), ownerID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	if f == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV. Activities within a row are pipe-separated
// ("|") to keep each stop on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary-export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToResponse maps a domain.ExportRow to its wire form.
// Stop fields of a stop-less trip become nil and are omitted from JSON.
func domainRowToResponse(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)

	row := ExportRow{
		TripID:        tripID,
		TripName:      r.TripName,
		TripStatus:    r.TripStatus,
		TripStartDate: mustParseDate(r.TripStartDate),
		TripEndDate:   mustParseDate(r.TripEndDate),
		TotalBudget:   r.TotalBudget,
		Currency:      r.Currency,
		Activities:    r.Activities,
	}
	if row.Activities == nil {
		row.Activities = []string{}
	}
	if r.StopStartDate == nil {
		return row
	}

	start := openapi_types.Date{Time: *r.StopStartDate}
	row.StopStartDate = &start
	if r.StopEndDate != nil {
		end := openapi_types.Date{Time: *r.StopEndDate}
		row.StopEndDate = &end
	}
	row.StopCity = &r.StopCity
	row.StopCountry = &r.StopCountry
	row.EstimatedBudget = &r.EstimatedBudget
	if r.StopNotes != "" {
		row.StopNotes = &r.StopNotes
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil dates are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	estimated := ""
	if r.StopStartDate != nil {
		estimated = formatAmount(r.EstimatedBudget)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripStatus,
		r.TripStartDate,
		r.TripEndDate,
		formatAmount(r.TotalBudget),
		r.Currency,
		r.StopCity,
		r.StopCountry,
		formatOptionalDate(r.StopStartDate),
		formatOptionalDate(r.StopEndDate),
		estimated,
		r.StopNotes,
		strings.Join(r.Activities, "|"),
	}
}

// mustParseDate parses an "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}

// formatOptionalDate returns t as "2006-01-02", or "" if t is nil.
func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
