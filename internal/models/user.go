package models

import (
	"time"
)

// User represents a registered account. The normalized email address is the
// account's identity.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Salt         string    `json:"salt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new User instance with the given email and hashed password.
func NewUser(email, passwordHash, salt string) *User {
	now := time.Now()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetPassword replaces the stored hash and salt.
func (u *User) SetPassword(passwordHash, salt string) {
	u.PasswordHash = passwordHash
	u.Salt = salt
	u.UpdatedAt = time.Now()
}

// UserCredentials represents the body of a register request.
// Presence is checked by the service so that both fields share one message.
type UserCredentials struct {
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"max=256"`
}

// LoginRequest represents the body of a login request. Nothing is format
// checked: an address that could never register is just an unknown account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
