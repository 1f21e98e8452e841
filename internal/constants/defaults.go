// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for resource usage. Changes to these values may significantly impact
// application behavior and security.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 5000

	// DefaultServerHost is the default bind address.
	DefaultServerHost = "0.0.0.0"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultSessionCookieName is the cookie holding the signed session id.
	DefaultSessionCookieName = "session"

	// DefaultSessionIssuer is the issuer claim written into session cookies.
	DefaultSessionIssuer = "chat-backend"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Limits
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes

	// MaxChatMessageLength caps a single user message sent to the chat proxy.
	MaxChatMessageLength = 32000
)

// Default Password Hash Settings define the parameters for Argon2id hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Generated Codes and Identifiers
const (
	// ResetCodeMin is the smallest 6-digit reset code.
	ResetCodeMin = 100000

	// ResetCodeMax is the largest 6-digit reset code.
	ResetCodeMax = 999999

	// ChatIDMin is the smallest 10-digit chat id.
	ChatIDMin = 1000000000

	// ChatIDMax is the largest 10-digit chat id.
	ChatIDMax = 9999999999

	// ChatIDAttempts bounds how often a colliding chat id is redrawn.
	ChatIDAttempts = 5
)

// Rate Limit Defaults
const (
	DefaultRateLimitPerMinute = 30
	DefaultRateLimitBurst     = 10

	// ResetRateDivisor scales the per-minute allowance down for the reset
	// routes, which accept guesses of short numeric codes.
	ResetRateDivisor = 3
)

// Chat Client Defaults
const (
	// DefaultChatBaseURL is the root of the generative language REST API.
	DefaultChatBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultChatModel is the model addressed by generateContent calls.
	DefaultChatModel = "gemini-2.5-flash-preview-09-2025"

	// ChatRoleUser marks a turn written by the person chatting.
	ChatRoleUser = "user"

	// ChatRoleModel marks a turn produced by the generation API.
	ChatRoleModel = "model"
)

// Mail Providers
const (
	MailProviderLog      = "log"
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"

	DefaultMailFrom     = "no-reply@localhost"
	DefaultMailFromName = "Chat Support"
)

// Health Status Values
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)
