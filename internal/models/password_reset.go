package models

import (
	"time"
)

// ResetToken is the pending verification code issued for an email address.
// At most one token exists per address; a new request replaces the old one.
type ResetToken struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResetToken creates a token that expires ttl from now.
func NewResetToken(email, code string, ttl time.Duration) *ResetToken {
	now := time.Now()
	return &ResetToken{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired reports whether the token is no longer usable at the given instant.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ForgotPasswordRequest starts the reset flow. It is decoded leniently
// because the answer never depends on the body.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest submits the emailed code. A code of the wrong shape is
// simply a wrong code.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"omitempty,max=255"`
	Code  string `json:"code"`
}

// ResetPasswordRequest sets the new password once the code was verified.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"max=256"`
}
