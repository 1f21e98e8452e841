// Package models holds the records persisted in the key-value store and the
// request and response bodies of the JSON API.
package models

import (
	"time"
)

// Session is the server-side state of one browser client. The browser only
// holds a signed reference to its ID.
type Session struct {
	// ID is the random identifier carried in the session cookie
	ID string `json:"id"`

	// LoggedIn is set by a successful login and cleared by logout
	LoggedIn bool `json:"logged_in"`

	// Email is the account the session is logged in as
	Email string `json:"email,omitempty"`

	// ChatID names the chat history of the current conversation
	ChatID string `json:"chat_id,omitempty"`

	// ResetEmail is set once a reset code has been verified and
	// authorizes exactly one password change
	ResetEmail string `json:"reset_email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates an empty session with the given ID.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// IsAuthenticated reports whether the session belongs to a logged in user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.LoggedIn && s.Email != ""
}

// Login marks the session as authenticated and starts without a conversation.
func (s *Session) Login(email string) {
	s.LoggedIn = true
	s.Email = email
	s.ChatID = ""
}

// Logout clears authentication and returns the chat ID that was active.
func (s *Session) Logout() string {
	chatID := s.ChatID
	s.LoggedIn = false
	s.Email = ""
	s.ChatID = ""
	return chatID
}

// PopResetEmail removes and returns the reset authorization.
func (s *Session) PopResetEmail() string {
	email := s.ResetEmail
	s.ResetEmail = ""
	return email
}
