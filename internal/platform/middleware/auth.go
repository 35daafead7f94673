package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "gatehouse/pkg/domain"
	"gatehouse/pkg/requestcontext"
)

// TokenValidator resolves a bearer token to an actor. Implemented by the
// auth service; validation includes the revocation list, so a logged-out
// token stops resolving immediately.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error)
}

// TokenClaims is what the middleware needs from a validated token: who the
// actor is and which role the auth collaborator resolved for them. The core
// trusts these values as-is.
type TokenClaims struct {
	UserID id.UserID
	Role   id.Role
}

// ResolveActor extracts the bearer token, validates it, and injects the
// actor into the request context. Requests without a (valid) token proceed
// with no actor; the access controller turns that into unauthorized at the
// operation boundary. Keeping resolution separate from enforcement lets
// /healthz and /auth/login share the chain.
func ResolveActor(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				logger.WarnContext(r.Context(), "bearer token rejected",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestcontext.WithActor(r.Context(), claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
