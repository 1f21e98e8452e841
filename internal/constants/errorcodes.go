// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling and messaging.
// User-facing messages are the exact strings the browser client renders, so they
// are kept together here instead of being scattered across handlers.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	ErrorNotFound           = "resource not found"
	ErrorUnauthorized       = "unauthorized access"
	ErrorBadRequest         = "invalid request"
	ErrorInternalServer     = "internal server error"
	ErrorValidation         = "validation error"
	ErrorDuplicate          = "duplicate resource"
	ErrorInvalidCredentials = "invalid credentials"
	ErrorExpiredToken       = "expired token"
	ErrorInvalidToken       = "invalid token"
	ErrorRateLimited        = "rate limit exceeded"
	ErrorUnavailable        = "service unavailable"
)

// Account Messages are returned by the registration and login endpoints.
const (
	MsgMissingCredentials   = "Missing email or password"
	MsgUserExists           = "User already exists"
	MsgRegistrationSuccess  = "Registration successful! You can now log in."
	MsgLoginSuccess         = "Login successful"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgLogoutSuccess        = "Logged out successfully"
	MsgAuthRequired         = "Authentication required"
	MsgSessionUnavailable   = "Session could not be loaded"
	MsgInternalServerError  = "An internal server error occurred"
	MsgRequestBodyTooLarge  = "Request body too large"
	MsgEmptyRequestBody     = "Request body must not be empty"
	MsgMalformedJSON        = "Request body contains malformed JSON"
	MsgResourceNotFound     = "The requested resource could not be found"
	MsgTooManyRequests      = "Too many requests, please slow down"
	MsgServiceNotConfigured = "Service is not configured"
	MsgStoreUnavailable     = "Storage backend is unavailable"
	MsgMethodNotAllowed     = "Method not allowed"
)

// Password Reset Messages are returned by the reset flow endpoints.
const (
	MsgResetCodeSent       = "If the email is registered, a reset code has been sent."
	MsgResetProcessExpired = "Invalid email or reset process expired."
	MsgResetCodeExpired    = "Reset code has expired. Please try again."
	MsgResetCodeInvalid    = "Invalid reset code."
	MsgResetCodeVerified   = "Code verified successfully."
	MsgResetUnauthorized   = "Reset authorization failed. Please restart the process."
	MsgResetPasswordEmpty  = "New password cannot be empty."
	MsgPasswordUpdated     = "Password updated successfully! You can now log in."
)

// Chat Messages are returned by the chat proxy endpoints.
const (
	MsgMissingMessage      = "Missing message content"
	MsgChatKeyMissing      = "Gemini API key not configured on the server."
	MsgChatUpstreamFailure = "An error occurred while contacting the chat service."
	MsgChatResponseBlocked = "An error occurred or the response was blocked."
	MsgNewChatStarted      = "New chat started"
)

// Mail Templates are used when delivering reset codes.
const (
	MsgResetMailSubject     = "Your password reset code"
	MsgResetMailBodyFormat  = "Your password reset code is %s. It expires in %d minutes."
	MsgResetMailHTMLFormat  = "<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>"
	MsgSimulatedMailWarning = "Mail delivery is simulated, reset code written to log"
)

// Logger Constants define values used for structured logging.
const (
	LogCategoryAuth  = "auth"
	LogCategoryReset = "password_reset"
	LogCategoryChat  = "chat"

	LogEventLogin          = "login"
	LogEventRegister       = "register"
	LogEventLogout         = "logout"
	LogEventForgotPassword = "forgot_password"
	LogEventVerifyCode     = "verify_code"
	LogEventResetPassword  = "reset_password"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
