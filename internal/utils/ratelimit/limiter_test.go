package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLimiter(t *testing.T) {
	t.Run("Starts with a full bucket", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(1, 3)

		// Act & Assert
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow(), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow(), "burst exhausted")
	})
}

func TestLimiter_Reserve(t *testing.T) {
	t.Run("Reports a retry delay when empty", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(1, 1)
		assert.True(t, limiter.Allow())

		// Act
		allowed, retryAfter := limiter.Reserve()

		// Assert
		assert.False(t, allowed)
		assert.Greater(t, retryAfter, time.Duration(0))
		assert.LessOrEqual(t, retryAfter, time.Second)
	})

	t.Run("Rejected reservations do not consume future tokens", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(50, 1)
		assert.True(t, limiter.Allow())

		// Act
		for i := 0; i < 5; i++ {
			limiter.Allow()
		}
		time.Sleep(40 * time.Millisecond)

		// Assert
		assert.True(t, limiter.Allow(), "a token should have been refilled")
	})

	t.Run("Zero burst never allows", func(t *testing.T) {
		limiter := NewLimiter(10, 0)

		allowed, _ := limiter.Reserve()

		assert.False(t, allowed)
	})
}

func TestPerMinute(t *testing.T) {
	r := PerMinute(30, 5)

	assert.InDelta(t, 0.5, r.RequestsPerSecond, 1e-9)
	assert.Equal(t, 5, r.Burst)
}
