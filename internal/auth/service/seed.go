package service

import (
	"context"
	"fmt"
	"time"

	"gatehouse/internal/auth/models"
	"gatehouse/internal/auth/store"
	id "gatehouse/pkg/domain"
)

// SeedAccount describes one bootstrap account.
type SeedAccount struct {
	Email    string
	FullName string
	Role     id.Role
}

// DefaultSeedAccounts are the three accounts a fresh facility needs: one per
// role. Passwords come from configuration, never from here.
var DefaultSeedAccounts = []SeedAccount{
	{Email: "admin@company.com", FullName: "Administrator", Role: id.RoleAdmin},
	{Email: "reception@company.com", FullName: "Reception", Role: id.RoleReception},
	{Email: "cso@company.com", FullName: "Chief Security Officer", Role: id.RoleCSO},
}

// SeedUsers provisions the bootstrap accounts. Upsert keys on email, so the
// seed is idempotent: rerunning refreshes names, roles, and passwords without
// creating duplicates.
func SeedUsers(ctx context.Context, users store.UserStore, accounts []SeedAccount, password string) error {
	if password == "" {
		return fmt.Errorf("seed password is required")
	}
	now := time.Now()
	for _, account := range accounts {
		user := &models.User{
			ID:        id.NewUserID(),
			Email:     account.Email,
			FullName:  account.FullName,
			Role:      account.Role,
			Active:    true,
			CreatedAt: now,
		}
		if err := user.SetPassword(password); err != nil {
			return fmt.Errorf("seed user %s: %w", account.Email, err)
		}
		if err := users.Upsert(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", account.Email, err)
		}
	}
	return nil
}
