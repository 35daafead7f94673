package store

import (
	"context"
	"strings"

	"gatehouse/internal/auth/models"
	id "gatehouse/pkg/domain"
)

// UserStore persists system accounts. Upsert keys on email so bootstrap
// seeding stays idempotent.
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
}

// normalizeEmail is the lookup key: addresses compare case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
