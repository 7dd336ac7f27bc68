package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/internal/auth"
)

// Verifier turns a bearer token into the owner it identifies.
// *auth.Authenticator satisfies it.
type Verifier interface {
	Authenticate(token string) (uuid.UUID, error)
}

// NewRequireOwner returns a middleware that rejects requests without a valid
// bearer token with 401 and stores the authenticated owner ID in the request
// context for auth.OwnerFrom.
func NewRequireOwner(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed bearer token")
				return
			}
			ownerID, err := v.Authenticate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), ownerID)))
		})
	}
}

// writeError writes the API's standard error envelope. It mirrors the
// handler package's format for responses produced before routing.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
