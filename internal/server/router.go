// Package server assembles the HTTP router and owns the http.Server
// lifecycle.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	accounthandler "copilot-auth/internal/account/handler"
	healthhandler "copilot-auth/internal/health/handler"
)

// Deps holds the handlers mounted on the router.
type Deps struct {
	Auth   *accounthandler.AuthHandler
	Health *healthhandler.Server
}

// NewRouter builds the route tree:
//
//	GET  /                           → welcome banner
//	GET  /health                     → liveness
//	POST /accounts/register          → register
//	POST /accounts/login             → login
//	POST /accounts/refresh           → rotate tokens
//	POST /accounts/logout            → revoke token (bearer)
//	GET  /accounts/verify-email      → redeem verification code
//	GET  /accounts/get-user-details  → account lookup (bearer)
//
// CORS is wide open; the API is consumed from browsers on arbitrary origins.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", deps.Health.Welcome)
	r.Get("/health", deps.Health.Health)
	r.Mount("/accounts", deps.Auth.Routes())

	return otelhttp.NewHandler(r, "copilot-auth")
}

// New returns an http.Server for handler with conservative timeouts.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Shutdown drains the server within the given timeout.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
