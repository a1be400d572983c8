package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	accounthandler "copilot-auth/internal/account/handler"
	healthhandler "copilot-auth/internal/health/handler"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(Deps{
		Auth:   accounthandler.NewAuthHandler(nil, logger),
		Health: healthhandler.NewServer(),
	})
}

func TestRouter_HealthEndpoints(t *testing.T) {
	r := newRouter(t)
	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("GET %s content type = %q", path, ct)
		}
	}
}

func TestRouter_ProtectedRoutesRequireBearer(t *testing.T) {
	r := newRouter(t)
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/accounts/logout"},
		{http.MethodGet, "/accounts/get-user-details"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouter_PublicAccountRoutesMounted(t *testing.T) {
	r := newRouter(t)
	// Validation fires before the service, so a nil service is fine here.
	req := httptest.NewRequest(http.MethodPost, "/accounts/register", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /accounts/register status = %d, want 400 from validation", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/accounts/login", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
