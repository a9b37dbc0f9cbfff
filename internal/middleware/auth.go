package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"carpool-backend/internal/security"
	"carpool-backend/internal/services"
)

// AuthMiddleware validates the bearer token and attaches the acting
// identity to the request context. Every service call receives the
// principal explicitly from there; no global security state.
func AuthMiddleware(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			email, err := authService.ValidateToken(parts[1])
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			principal, err := authService.PrincipalFor(r.Context(), email)
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := security.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// PrincipalFromToken resolves a token presented outside the Authorization
// header (the WebSocket query parameter).
func PrincipalFromToken(r *http.Request, token string, authService *services.AuthService) (security.Principal, error) {
	if token == "" {
		return security.Principal{}, fmt.Errorf("token required")
	}
	email, err := authService.ValidateToken(token)
	if err != nil {
		return security.Principal{}, err
	}
	return authService.PrincipalFor(r.Context(), email)
}
