package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/middleware"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
// - Health check and version endpoints (no session)
// - Account endpoints (register, login, logout, check_auth)
// - Password reset endpoints (forgot_password, verify_code, reset_password)
// - Chat endpoints (chat, new_chat)
// - The browser pages, when a static directory is configured
//
// Pages and API routes share the cookie session loaded by the session middleware.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(s.Config.CORS.AllowedOrigins, s.Config.CORS.AllowCredentials))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, constants.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
	})

	// Health check and version routes
	r.Get(constants.HealthPath, s.Handlers.SystemHandler.Health)
	r.Get(constants.VersionPath, s.Handlers.SystemHandler.Version)

	sessions := s.authProviders.Sessions

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Use(middleware.APIHeaders())

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			utils.NotFound(w, "")
		})

		r.Get(constants.RoutesPath, s.GetAPIRoutes)

		r.Group(func(r chi.Router) {
			r.Use(sessions.Middleware)

			// Account routes
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit(constants.RateCategoryAuth))
				r.Post(constants.RegisterPath, s.Handlers.AuthHandler.Register)
				r.Post(constants.LoginPath, s.Handlers.AuthHandler.Login)
			})
			r.Get(constants.CheckAuthPath, s.Handlers.AuthHandler.CheckAuth)
			r.Post(constants.LogoutPath, s.Handlers.AuthHandler.Logout)

			// Password reset routes
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit(constants.RateCategoryReset))
				r.Post(constants.ForgotPassPath, s.Handlers.ResetHandler.ForgotPassword)
				r.Post(constants.VerifyCodePath, s.Handlers.ResetHandler.VerifyCode)
				r.Post(constants.ResetPassPath, s.Handlers.ResetHandler.ResetPassword)
			})

			// Chat routes
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit(constants.RateCategoryChat))
				r.Post(constants.ChatPath, s.Handlers.ChatHandler.Chat)
				r.Post(constants.NewChatPath, s.Handlers.ChatHandler.NewChat)
			})
		})
	})

	// Browser pages
	if pages := s.Handlers.PageHandler; pages != nil {
		r.Group(func(r chi.Router) {
			r.Use(sessions.Middleware)

			r.Get(constants.PageIndex, pages.File(constants.IndexFile))
			r.With(auth.RequireSession(auth.IsLoggedIn)).
				Get(constants.PageHome, pages.File(constants.HomeFile))
			r.With(auth.RequireSession(auth.HasResetAuthorization)).
				Get(constants.PageReset, pages.File(constants.ResetFile))
		})

		r.NotFound(pages.Assets)
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			utils.NotFound(w, "")
		})
	}

	s.router = r
}

// GetRouter returns the configured router.
// It is primarily used by tests to serve requests without a listener.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// rateLimit returns the limiter middleware for category, or a pass-through
// when rate limiting is disabled.
func (s *Server) rateLimit(category string) func(http.Handler) http.Handler {
	if s.limiters == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RateLimit(s.limiters, category)
}

// routeDoc describes a single API endpoint.
type routeDoc struct {
	Description string            `json:"description"`
	Body        map[string]string `json:"body,omitempty"`
	Session     string            `json:"session,omitempty"`
	Responses   []int             `json:"responses"`
}

// GetAPIRoutes returns documentation about all API routes, keyed by
// method and path.
func (s *Server) GetAPIRoutes(w http.ResponseWriter, r *http.Request) {
	api := constants.APIBasePath
	routes := map[string]routeDoc{
		"POST " + api + constants.RegisterPath: {
			Description: "Create an account",
			Body:        map[string]string{"email": "string", "password": "string"},
			Responses:   []int{201, 400, 409},
		},
		"POST " + api + constants.LoginPath: {
			Description: "Log in and bind the account to the session",
			Body:        map[string]string{"email": "string", "password": "string"},
			Responses:   []int{200, 401},
		},
		"POST " + api + constants.LogoutPath: {
			Description: "Log out and discard the current chat",
			Responses:   []int{200},
		},
		"GET " + api + constants.CheckAuthPath: {
			Description: "Report whether the session is logged in",
			Responses:   []int{200, 401},
		},
		"POST " + api + constants.ForgotPassPath: {
			Description: "Mail a reset code if the address is registered",
			Body:        map[string]string{"email": "string"},
			Responses:   []int{200},
		},
		"POST " + api + constants.VerifyCodePath: {
			Description: "Verify a reset code and authorize a password change",
			Body:        map[string]string{"email": "string", "code": "string - 6 digits"},
			Responses:   []int{200, 400},
		},
		"POST " + api + constants.ResetPassPath: {
			Description: "Set a new password after a verified code",
			Body:        map[string]string{"password": "string"},
			Session:     "verified reset code",
			Responses:   []int{200, 400, 401},
		},
		"POST " + api + constants.ChatPath: {
			Description: "Send a message and receive the model reply",
			Body:        map[string]string{"message": "string"},
			Responses:   []int{200, 400, 500, 503},
		},
		"POST " + api + constants.NewChatPath: {
			Description: "Start a new conversation",
			Responses:   []int{200},
		},
		"GET " + constants.HealthPath: {
			Description: "Check the key-value store",
			Responses:   []int{200, 503},
		},
		"GET " + constants.VersionPath: {
			Description: "Report build metadata",
			Responses:   []int{200},
		},
	}

	utils.JSON(w, http.StatusOK, routes)
}
