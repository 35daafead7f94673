package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

// User is a system account that can sign in at a terminal. The role decides
// what the account may do; the lifecycle engine trusts the resolved role
// as-is.
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         id.Role   `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	if password == "" {
		return dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not hash password")
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword verifies a login attempt against the stored hash. The error
// never says whether the account or the password was wrong.
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return nil
}
