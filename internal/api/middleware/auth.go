package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/auth"
)

type contextKey string

const claimsKey contextKey = "auth.claims"

// RequireAuth validates the bearer token and stores its claims in the
// request context. The token subject is the requester's account ID.
func RequireAuth(jwtManager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://campus.events/problems/unauthorized", "Unauthorized", err, env)
				return
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					problem.Write(w, r, http.StatusUnauthorized, "https://campus.events/problems/session-expired", "Session Expired", err, env)
					return
				}
				problem.Write(w, r, http.StatusUnauthorized, "https://campus.events/problems/unauthorized", "Unauthorized", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the authenticated claims, if any.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
