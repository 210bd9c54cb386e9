package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmynk/billtab/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UsernameKey is the context key for the token-authenticated username.
	UsernameKey contextKey = "username"
)

// GetUsername extracts the token-authenticated username from the context.
// Returns empty string if the request carried no valid token.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(UsernameKey).(string)
	return username
}

// OptionalAuth validates a Bearer token if one is present and adds the
// username to the request context. Requests without a token (or with an
// invalid one) pass through untouched: explicit username parameters remain
// the primary identity channel, the token is only a fallback.
func OptionalAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					// Validate token (ignore errors - optional auth)
					claims, err := tokens.Validate(parts[1])
					if err == nil {
						ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
						r = r.WithContext(ctx)
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
