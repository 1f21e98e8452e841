package middleware

import (
	"net/http"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}

// APIHeaders marks JSON API responses as uncacheable and forbids them from
// loading any content. Static pages are served without these headers.
func APIHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)
			w.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
			w.Header().Set(constants.HeaderPragma, constants.PragmaNoCache)
			w.Header().Set(constants.HeaderExpires, constants.ExpiresZero)

			next.ServeHTTP(w, r)
		})
	}
}

// CORS creates a CORS middleware for the given origins. An empty list disables
// cross-origin access entirely; "*" reflects any origin.
//
// Parameters:
//   - allowedOrigins: A list of origins that are allowed to access the API
//   - allowCredentials: Whether browsers may send the session cookie cross-origin
//
// Returns:
//   - A middleware function that adds CORS headers and answers preflight requests
func CORS(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(constants.HeaderOrigin)
			if origin == "" || !originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(constants.HeaderAccessControlAllowOrigin, origin)
			w.Header().Add(constants.HeaderVary, constants.HeaderOrigin)
			if allowCredentials {
				w.Header().Set(constants.HeaderAccessControlAllowCredentials, "true")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			// Preflight
			w.Header().Set(constants.HeaderAccessControlAllowMethods, constants.CORSAllowMethods)
			w.Header().Set(constants.HeaderAccessControlAllowHeaders, constants.CORSAllowHeaders)
			w.Header().Set(constants.HeaderAccessControlMaxAge, constants.CORSMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	return utils.ContainsString(allowedOrigins, "*") || utils.ContainsString(allowedOrigins, origin)
}
