// Package handlers provides the HTTP request handlers of the chat backend.
package handlers

import (
	"context"
	"net/http"

	"github.com/yasinhessnawi1/chatbridge/internal/models"
)

// AuthServiceInterface defines the methods required from the account service.
type AuthServiceInterface interface {
	// RegisterUser creates an account. A taken email yields a duplicate error.
	RegisterUser(ctx context.Context, creds *models.UserCredentials) (*models.User, error)

	// Login checks the credentials and marks session as logged in.
	Login(ctx context.Context, session *models.Session, req *models.LoginRequest) error

	// Logout clears session and deletes its conversation.
	Logout(ctx context.Context, session *models.Session) error

	// Status reports whether session is logged in.
	Status(session *models.Session) *models.AuthStatusResponse
}

// PasswordResetServiceInterface defines the methods required from the
// password reset service.
type PasswordResetServiceInterface interface {
	ForgotPassword(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, session *models.Session, email, code string) error
	ResetPassword(ctx context.Context, session *models.Session, password string) error
}

// ChatServiceInterface defines the methods required from the chat service.
type ChatServiceInterface interface {
	SendMessage(ctx context.Context, session *models.Session, message string) (string, error)
	NewChat(ctx context.Context, session *models.Session) error
}

// SessionSaver persists a session and refreshes the caller's cookie.
type SessionSaver interface {
	Save(ctx context.Context, w http.ResponseWriter, session *models.Session) error
}

// StorePinger checks the storage backend.
type StorePinger interface {
	Ping(ctx context.Context) error
}
