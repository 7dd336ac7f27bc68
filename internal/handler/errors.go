package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/itinerary/internal/domain"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an ErrorResponse.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// badRequest reports a request rejected before reaching the service layer
// (malformed body, unparseable path or query parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "bad_request", message)
}

// fail maps a service error onto the HTTP error contract. resource names what
// was being looked up and is used when the error does not say itself.
// Store failures are logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, resource string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFoundMessage(err, resource))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", detailAfter(err, domain.ErrForbidden, "forbidden"))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", detailAfter(err, domain.ErrValidation, "invalid input"))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", resource+" was modified concurrently, retry the request")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// detailAfter extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func detailAfter(err, sentinel error, fallback string) string {
	msg, key := err.Error(), sentinel.Error()+": "
	if i := strings.Index(msg, key); i >= 0 && i+len(key) < len(msg) {
		return msg[i+len(key):]
	}
	return fallback
}

// notFoundMessage names the missing resource. Services tag lookups of
// secondary resources, e.g. "service.TripService.AddStop: city: not found";
// untagged errors fall back to resource.
func notFoundMessage(err error, resource string) string {
	msg, key := err.Error(), ": "+domain.ErrNotFound.Error()
	if i := strings.Index(msg, key); i >= 0 {
		head := msg[:i]
		if j := strings.LastIndex(head, ": "); j >= 0 {
			head = head[j+2:]
		}
		if head != "" && !strings.Contains(head, ".") {
			return head + " not found"
		}
	}
	return resource + " not found"
}
