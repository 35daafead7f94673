// Package service is the authentication boundary: it turns credentials into
// tokens, tokens into actors, and logouts into revocations. The lifecycle
// core never sees a credential, only the resolved actor.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gatehouse/internal/auth/jwt"
	"gatehouse/internal/auth/models"
	"gatehouse/internal/auth/store"
	"gatehouse/internal/auth/store/revocation"
	"gatehouse/internal/platform/middleware"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/requestcontext"
)

// AuthService signs users in and out and resolves bearer tokens.
type AuthService struct {
	users   store.UserStore
	tokens  *jwt.Service
	revoked revocation.Store
	logger  *slog.Logger
}

func New(users store.UserStore, tokens *jwt.Service, revoked revocation.Store, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, tokens: tokens, revoked: revoked, logger: logger}
}

// LoginResult is what a terminal needs after sign-in.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login verifies the credentials and issues an access token. Every failure
// mode (unknown account, wrong password, deactivated account) is the same
// unauthorized error so the response never confirms which field was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "user store unavailable")
	}
	if err := user.CheckPassword(password); err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := requestcontext.Now(ctx)
	token, err := s.tokens.Generate(user.ID, user.Role, now)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID.String(),
		"role", user.Role.String(),
	)
	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.tokens.TTL()),
		User:      user,
	}, nil
}

// Logout revokes the presented token for its remaining lifetime. Revoking an
// already-revoked or expired token is not an error.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		// An invalid or expired token has nothing left to revoke.
		return nil
	}
	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "revocation list unavailable")
	}
	s.logger.InfoContext(ctx, "user logged out",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", claims.UserID,
	)
	return nil
}

// ValidateToken resolves a bearer token into actor claims, checking the
// revocation list so a logged-out token stops resolving immediately.
// Satisfies middleware.TokenValidator.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*middleware.TokenClaims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "revocation list unavailable")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role := id.Role(claims.Role)
	if !role.Valid() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &middleware.TokenClaims{UserID: userID, Role: role}, nil
}
