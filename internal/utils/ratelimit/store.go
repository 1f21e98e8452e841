package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCategory is used when a category has no rate of its own.
const DefaultCategory = "default"

// Store manages rate limiters for multiple clients.
type Store struct {
	// limiters maps category and client identifier to their rate limiter
	limiters map[string]*Limiter

	// rates defines different rate limits for different route categories
	rates map[string]Rate

	// mu protects concurrent access to the maps
	mu sync.RWMutex
}

// NewStore creates a new store for managing rate limiters.
//
// Parameters:
//   - defaultRate: The rate applied to categories without an explicit rate
//
// Returns:
//   - A configured limiter store
func NewStore(defaultRate Rate) *Store {
	return &Store{
		limiters: make(map[string]*Limiter),
		rates:    map[string]Rate{DefaultCategory: defaultRate},
	}
}

// GetLimiter returns a rate limiter for the specified client in a category.
// If a limiter doesn't exist yet, a new one is created.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: The route group being limited (e.g., "auth", "chat")
func (s *Store) GetLimiter(clientID string, category string) *Limiter {
	key := category + "|" + clientID

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()

	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it between the locks
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	r, ok := s.rates[category]
	if !ok {
		r = s.rates[DefaultCategory]
	}

	limiter = NewLimiter(r.RequestsPerSecond, r.Burst)
	s.limiters[key] = limiter

	return limiter
}

// SetRate sets a rate limit for a specific category.
// Limiters already handed out keep their old rate.
func (s *Store) SetRate(category string, r Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = r
}

// Cleanup removes limiters that have been idle for longer than maxIdle and
// returns how many were evicted.
func (s *Store) Cleanup(maxIdle time.Duration) int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if limiter.idleSince(now) > maxIdle {
			delete(s.limiters, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(s.limiters)).Msg("Evicted idle rate limiters")
	}

	return removed
}

// Len returns the number of tracked limiters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}
