package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	// ClientContextKey is the key used to store client claims in context
	ClientContextKey contextKey = "client"
)

// Middleware creates an authentication middleware
func Middleware(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := service.ValidateToken(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := WithClient(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClient stores client claims in a context
func WithClient(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClientContextKey, claims)
}

// GetClientFromContext retrieves client claims from the request context
func GetClientFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClientContextKey).(*Claims)
	return claims, ok
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
