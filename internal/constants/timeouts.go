package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Store Timeouts
const (
	DBConnectionTimeout  = 30 * time.Second
	DBQueryTimeout       = 15 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
	StoreCleanupInterval = 5 * time.Minute
	RedisDialTimeout     = 5 * time.Second
	MaintenanceTimeout   = 1 * time.Minute
)

// Session and Reset Lifetimes
const (
	DefaultSessionTTL   = 24 * time.Hour
	DefaultResetCodeTTL = 5 * time.Minute

	// ResetTokenRetention keeps an expired reset token readable for a while
	// so verification can report expiry instead of an unknown request.
	ResetTokenRetention = 10 * time.Minute
)

// Chat Client
const (
	DefaultChatTimeout = 30 * time.Second
)

// Rate Limiting
const (
	RateLimiterIdleTTL = 10 * time.Minute
)
