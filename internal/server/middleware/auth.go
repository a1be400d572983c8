// Package middleware holds HTTP middleware shared by the router.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

type contextKey string

const tokenKey contextKey = "bearer_token"

// RequireBearer rejects requests without a well formed Authorization Bearer
// header and stores the raw token in the request context for handlers to pick
// up via Token. The token itself is not validated here; the service layer
// decodes and checks it.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r.Header.Get("Authorization"))
		if token == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Missing or malformed Authorization header","error":"invalid_request"}`))
			return
		}
		ctx := context.WithValue(r.Context(), tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Token returns the raw bearer token stored by RequireBearer, or "" if absent.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// extractBearer returns the token from an Authorization header value, or ""
// if missing or malformed. The scheme comparison is case insensitive.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) <= len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
