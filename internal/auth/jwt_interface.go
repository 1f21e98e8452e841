package auth

// SessionTokenProvider signs and verifies the session cookie value
type SessionTokenProvider interface {
	// GenerateSessionToken returns a signed token referencing sessionID
	GenerateSessionToken(sessionID string) (string, error)

	// ValidateSessionToken returns the session ID carried by a valid token
	ValidateSessionToken(tokenString string) (string, error)
}
