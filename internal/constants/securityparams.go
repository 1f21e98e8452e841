package constants

// Session Claim Types
const (
	TokenTypeSession = "session"
)

// Input Limits
const (
	ResetCodeLength = 6
)

// Log Field Names
const (
	LogFieldEmail     = "email"
	LogFieldSessionID = "session_id"
	LogFieldChatID    = "chat_id"
	LogFieldRequestID = "request_id"
	LogFieldBackend   = "backend"
)

// Rate Limit Categories group routes that share a request allowance.
const (
	RateCategoryAuth  = "auth"
	RateCategoryReset = "reset"
	RateCategoryChat  = "chat"
)
