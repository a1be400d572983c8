// Package handler serves the liveness endpoints for load balancers and CI.
package handler

import (
	"encoding/json"
	"net/http"
)

const serviceVersion = "1.0.0"

// Server serves the unauthenticated welcome and health endpoints.
type Server struct{}

// NewServer returns a new health handler.
func NewServer() *Server {
	return &Server{}
}

// Welcome answers GET / with the service banner.
func (s *Server) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"message": "Welcome to the authentication service",
		"version": serviceVersion,
	})
}

// Health answers GET /health. It reports process liveness only; it does not
// probe Postgres or Redis.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "healthy",
		"message": "Authentication service is running",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
