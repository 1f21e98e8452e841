// Package middleware provides HTTP middleware components.
package middleware

import (
	"net"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
	"github.com/yasinhessnawi1/chatbridge/internal/utils/ratelimit"
)

// RateLimit is middleware that limits the rate of requests from clients.
// Every client gets its own token bucket per category; requests over the
// allowance get a 429 with a Retry-After header.
//
// Parameters:
//   - limiters: The store holding one bucket per client and category
//   - category: The route group to apply limits for (e.g., "auth", "chat")
//
// Returns:
//   - A middleware function that can be used with an HTTP handler
func RateLimit(limiters *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExemptedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)

			allowed, retryAfter := limiters.GetLimiter(clientIP, category).Reserve()
			if !allowed {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Str(constants.LogFieldRequestID, chimiddleware.GetReqID(r.Context())).
					Dur("retry_after", retryAfter).
					Msg("Rate limit exceeded")

				utils.TooManyRequests(w, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of the remote address. The RealIP
// middleware has already replaced it with the forwarded address when the
// request came through a proxy.
func getClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If there's no port in the address, use it as is
		return r.RemoteAddr
	}
	return ip
}

// isExemptedPath returns true if the path should never be rate limited
func isExemptedPath(path string) bool {
	exemptPrefixes := []string{
		constants.HealthPath,
		constants.VersionPath,
	}

	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
