package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary/internal/auth"
)

// pathUUID binds the named chi path parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: must be a UUID", name)
	}
	return id, nil
}

// pathUUIDs binds several UUID path parameters, in order. On failure it writes
// a 400 and returns false.
func pathUUIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		id, err := pathUUID(r, name)
		if err != nil {
			badRequest(w, err.Error())
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// queryParam binds an optional form-style query parameter into dest.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid query parameter %q", name)
	}
	return nil
}

// owner returns the authenticated caller. Routes that need it are mounted
// behind middleware.NewRequireOwner; without it the request is rejected.
func owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.OwnerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
	}
	return id, ok
}

// decodeBody decodes the JSON request body into dst. Unknown fields are
// ignored. On failure it writes 400, or 413 when the body exceeded the size
// limit, and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return true
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.Is(err, io.EOF):
		badRequest(w, "request body is required")
	default:
		badRequest(w, "malformed JSON body")
	}
	return false
}
