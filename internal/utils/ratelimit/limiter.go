// Package ratelimit provides rate limiting functionality for protecting API endpoints.
// Each client gets a token bucket from golang.org/x/time/rate; the package adds
// per-category rates and idle eviction on top.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter represents a rate limiter for a specific client identity.
type Limiter struct {
	// bucket is the underlying token bucket
	bucket *rate.Limiter

	// lastSeen is the last time the client made a request
	lastSeen time.Time

	mu sync.Mutex
}

// Rate controls how many requests per second are allowed
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// PerMinute builds a Rate from a requests-per-minute figure.
func PerMinute(requests, burst int) Rate {
	return Rate{RequestsPerSecond: float64(requests) / 60, Burst: burst}
}

// NewLimiter creates a new rate limiter with the specified rate and burst capacity.
//
// Parameters:
//   - r: The number of tokens per second to add to the bucket
//   - burst: The maximum capacity of the bucket
//
// Returns:
//   - A configured rate limiter with a full bucket
func NewLimiter(r float64, burst int) *Limiter {
	return &Limiter{
		bucket:   rate.NewLimiter(rate.Limit(r), burst),
		lastSeen: time.Now(),
	}
}

// Allow reports whether a request may proceed now.
func (l *Limiter) Allow() bool {
	allowed, _ := l.Reserve()
	return allowed
}

// Reserve consumes a token if one is available. When the bucket is empty it
// returns false and the time until the next token.
func (l *Limiter) Reserve() (bool, time.Duration) {
	l.mu.Lock()
	l.lastSeen = time.Now()
	l.mu.Unlock()

	now := time.Now()
	reservation := l.bucket.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}

	return true, 0
}

// idleSince reports how long the client has been quiet.
func (l *Limiter) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastSeen)
}
