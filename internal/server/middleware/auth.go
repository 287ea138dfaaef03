// Package middleware provides HTTP middleware for authenticating employers and
// gating the employer-only views.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	userIDKey ContextKey = "userID"
	emailKey  ContextKey = "email"
)

// TokenValidator validates a bearer token and returns the identity it carries.
type TokenValidator interface {
	ValidateToken(tokenString string) (Principal, error)
}

// Principal is the authenticated identity behind a token.
type Principal interface {
	GetUserID() uuid.UUID
	GetEmail() string
}

// DenyFunc writes the response for a rejected request. status is 401 or 403.
type DenyFunc func(w http.ResponseWriter, r *http.Request, status int, reason string)

// plainDeny writes the bare status text, used when no DenyFunc is supplied.
func plainDeny(w http.ResponseWriter, _ *http.Request, status int, _ string) {
	http.Error(w, http.StatusText(status), status)
}

// AuthMiddleware validates bearer tokens and stores the user ID and email in the
// request context. Any failure is a 401, written by deny (plain text when nil).
func AuthMiddleware(validator TokenValidator, deny DenyFunc) func(http.Handler) http.Handler {
	if deny == nil {
		deny = plainDeny
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				deny(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			principal, err := validator.ValidateToken(tokenString)
			if err != nil {
				deny(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, principal.GetUserID())
			ctx = context.WithValue(ctx, emailKey, principal.GetEmail())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header. The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireEmail allows a request through only when the authenticated email is in
// allowlist, compared case-insensitively. It must run after AuthMiddleware.
// An empty allowlist admits nobody. Rejections go through deny (plain text when nil).
func RequireEmail(allowlist []string, deny DenyFunc) func(http.Handler) http.Handler {
	if deny == nil {
		deny = plainDeny
	}
	allowed := make(map[string]bool, len(allowlist))
	for _, email := range allowlist {
		if email = normalizeEmail(email); email != "" {
			allowed[email] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := GetEmail(r)
			if err != nil {
				deny(w, r, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !allowed[normalizeEmail(email)] {
				deny(w, r, http.StatusForbidden, "email is not on the employer allowlist")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return userID, nil
}

// GetEmail extracts the authenticated email from the request context.
func GetEmail(r *http.Request) (string, error) {
	email, ok := r.Context().Value(emailKey).(string)
	if !ok {
		return "", fmt.Errorf("email not found in request context")
	}
	return email, nil
}
