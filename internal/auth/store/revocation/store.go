// Package revocation tracks logged-out tokens by jti until they would have
// expired anyway. Redis-backed when configured, in-memory otherwise.
package revocation

import (
	"context"
	"time"
)

// Store is the revocation list.
type Store interface {
	// Revoke marks a token id as revoked for the given remaining lifetime.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	// IsRevoked reports whether the token id has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
