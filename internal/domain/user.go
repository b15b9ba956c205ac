// File: internal/domain/user.go
package domain

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated identity. Identities are opaque strings; all
// conversation state is keyed by Username and never shared across users.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// SetPassword hashes and stores the user's password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the stored hash.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// IsValid checks the minimal identity invariants.
func (u *User) IsValid() error {
	if len(u.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	return nil
}
