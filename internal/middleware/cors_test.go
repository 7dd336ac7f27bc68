package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/itinerary/internal/middleware"
)

const devOrigin = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSHandler_SimpleRequests(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantOrigin string
	}{
		{"allowed origin", []string{devOrigin}, devOrigin, devOrigin},
		{"second configured origin", []string{devOrigin, "https://plan.example.com"}, "https://plan.example.com", "https://plan.example.com"},
		{"disallowed origin", []string{devOrigin}, "http://evil.example.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.NewCORSHandler(tc.origins)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/cities", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			// The browser enforces CORS; the server still answers.
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSHandler_ExposesRequestID(t *testing.T) {
	h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Origin", devOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Request-Id")
}

func TestCORSHandler_Preflight(t *testing.T) {
	tests := []struct {
		method  string
		headers string
	}{
		{http.MethodPost, "authorization,content-type"},
		{http.MethodPut, "authorization,content-type"},
		{http.MethodPatch, "authorization,content-type"},
		{http.MethodDelete, "authorization"},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

			req := httptest.NewRequest(http.MethodOptions, "/trips/6f1c0c52-3c1e-4d43-9f0e-1f7b8a0c2d11", nil)
			req.Header.Set("Origin", devOrigin)
			req.Header.Set("Access-Control-Request-Method", tc.method)
			// Browsers send request header names lowercased and sorted; rs/cors expects that form.
			req.Header.Set("Access-Control-Request-Headers", tc.headers)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
				"expected 2xx for preflight, got %d", rec.Code)
			assert.Equal(t, devOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), tc.method)
			assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
		})
	}
}
