// Package telemetry emits best-effort auth lifecycle events. Events are
// exported as OTel log records; emission never blocks or fails a request.
package telemetry

import (
	"context"
	"time"
)

// Auth lifecycle event types.
const (
	EventRegistration  = "registration"
	EventLogin         = "login"
	EventTokenRefresh  = "token_refresh"
	EventLogout        = "logout"
	EventEmailVerified = "email_verified"
)

// Event represents one auth lifecycle event (optionally account-scoped).
type Event struct {
	AccountID int64 // zero if not known at emit time
	Email     string
	EventType string
	Source    string
	CreatedAt time.Time
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort;
// callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
