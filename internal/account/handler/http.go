// Package handler exposes the account service over HTTP/JSON.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"copilot-auth/internal/account/domain"
	"copilot-auth/internal/account/service"
	"copilot-auth/internal/server/middleware"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthService is the account service surface needed by the HTTP handlers.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (access, refresh string, err error)
	RefreshTokens(ctx context.Context, refreshToken string) (access, refresh string, err error)
	Logout(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, email, code string) bool
	GetUserDetails(ctx context.Context, token string) (*domain.Account, error)
}

// AuthHandler serves the /accounts endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewAuthHandler returns an AuthHandler backed by svc.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Routes returns the /accounts route tree. Logout and get-user-details
// require a bearer token; the rest are public.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Get("/verify-email", h.VerifyEmail)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireBearer)
		r.Post("/logout", h.Logout)
		r.Get("/get-user-details", h.GetUserDetails)
	})
	return r
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type dataEnvelope struct {
	Success    bool `json:"success"`
	DataSource any  `json:"dataSource"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	account, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataEnvelope{Success: true, DataSource: account.Public()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	access, refresh, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidRequest(w, "Malformed request body")
		return
	}
	if req.RefreshToken == "" {
		h.writeInvalidRequest(w, "refresh_token is required")
		return
	}
	access, refresh, err := h.svc.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.Token(r.Context())
	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageEnvelope{Success: true, Message: "Logged out successfully."})
}

// VerifyEmail always answers 200; the outcome is carried in the success flag
// so the link works from a plain browser without error pages.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	code := r.URL.Query().Get("token")
	if email == "" || code == "" {
		h.writeInvalidRequest(w, "email and token query parameters are required")
		return
	}
	if !h.svc.VerifyEmail(r.Context(), email, code) {
		writeJSON(w, http.StatusOK, messageEnvelope{Success: false, Message: "Email verification failed."})
		return
	}
	writeJSON(w, http.StatusOK, messageEnvelope{Success: true, Message: "Email verified successfully."})
}

func (h *AuthHandler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	token := middleware.Token(r.Context())
	account, err := h.svc.GetUserDetails(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataEnvelope{Success: true, DataSource: account.Public()})
}

// decodeCredentials parses and validates an email/password body, writing the
// invalid_request response itself when validation fails.
func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidRequest(w, "Malformed request body")
		return req, false
	}
	if !emailPattern.MatchString(req.Email) {
		h.writeInvalidRequest(w, "A valid email is required")
		return req, false
	}
	if req.Password == "" {
		h.writeInvalidRequest(w, "Password is required")
		return req, false
	}
	return req, true
}

func (h *AuthHandler) writeInvalidRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: message, Error: "invalid_request"})
}

// writeError maps a service error onto the error envelope. Anything that is
// not a typed service error is logged and reported as a generic 500.
func (h *AuthHandler) writeError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeJSON(w, svcErr.Status, errorEnvelope{Message: svcErr.Message, Error: svcErr.Code})
		return
	}
	h.logger.Error("unhandled error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Message: "Something Unexpected Happened.",
		Error:   "internal_error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
