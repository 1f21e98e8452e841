// Package server provides the HTTP server for the chat application.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server follows a structured initialization order: key-value store,
// auth providers, repositories, services, handlers and finally routes. It
// performs graceful shutdown and runs periodic maintenance for the store and
// the rate limiter.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/gemini"
	"github.com/yasinhessnawi1/chatbridge/internal/handlers"
	"github.com/yasinhessnawi1/chatbridge/internal/kvstore"
	"github.com/yasinhessnawi1/chatbridge/internal/repository"
	"github.com/yasinhessnawi1/chatbridge/internal/service"
	"github.com/yasinhessnawi1/chatbridge/internal/utils/ratelimit"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages registration, login and logout
	AuthHandler *handlers.AuthHandler

	// ResetHandler manages the password reset flow
	ResetHandler *handlers.PasswordResetHandler

	// ChatHandler proxies chat messages
	ChatHandler *handlers.ChatHandler

	// SystemHandler serves health and version
	SystemHandler *handlers.SystemHandler

	// PageHandler serves the browser client, nil when no static dir is configured
	PageHandler *handlers.PageHandler
}

// AuthProviders contains all authentication providers for the application.
type AuthProviders struct {
	// JWTService signs and validates session cookies
	JWTService *auth.JWTService

	// Sessions loads and persists browser sessions
	Sessions *auth.SessionManager

	// PasswordCfg contains password hashing configuration
	PasswordCfg *auth.PasswordConfig
}

type repositories struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.ResetTokenRepository
	sessionRepo repository.SessionRepository
	chatRepo    repository.ChatRepository
}

type services struct {
	authService  *service.AuthService
	resetService *service.PasswordResetService
	chatService  *service.ChatService
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Store is the key-value backend shared by all repositories
	Store kvstore.Store

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router        chi.Router
	authProviders *AuthProviders
	repos         repositories
	services      services
	limiters      *ratelimit.Store
	build         handlers.BuildInfo
	httpServer    *http.Server

	stopMaintenance context.CancelFunc
	maintenanceDone sync.WaitGroup
}

// NewServer opens the configured store and builds a server on top of it.
//
// Parameters:
//   - ctx: Context bounding the store connection and migrations
//   - cfg: Application configuration
//   - build: Version metadata reported by /version and /health
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if any component fails to initialize
func NewServer(ctx context.Context, cfg *config.AppConfig, build handlers.BuildInfo) (*Server, error) {
	store, err := kvstore.New(ctx, &cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to set up store: %w", err)
	}

	s, err := newServer(cfg, store, build)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close store")
		}
		return nil, err
	}

	return s, nil
}

// newServer wires every component on top of an already opened store.
func newServer(cfg *config.AppConfig, store kvstore.Store, build handlers.BuildInfo) (*Server, error) {
	s := &Server{
		Config: cfg,
		Store:  store,
		build:  build,
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	s.setupRepositories()

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.setupRateLimits()

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupAuthProviders creates the cookie signer, the session manager and the
// password hashing configuration.
func (s *Server) setupAuthProviders() error {
	if s.Config.Session.Secret == "" {
		return fmt.Errorf("session secret is not configured")
	}

	jwtService := auth.NewJWTService(&s.Config.Session)
	s.repos.sessionRepo = repository.NewSessionRepository(s.Store, s.Config.Session.TTL)

	s.authProviders = &AuthProviders{
		JWTService:  jwtService,
		Sessions:    auth.NewSessionManager(jwtService, s.repos.sessionRepo, &s.Config.Session),
		PasswordCfg: auth.ConfigFromAppConfig(s.Config),
	}

	return nil
}

// setupRepositories initializes the remaining repositories on the shared store.
func (s *Server) setupRepositories() {
	s.repos.userRepo = repository.NewUserRepository(s.Store)
	s.repos.tokenRepo = repository.NewResetTokenRepository(s.Store)
	s.repos.chatRepo = repository.NewChatRepository(s.Store)
}

// setupServices initializes the business services. A missing chat API key
// is not fatal: the chat endpoint answers 503 until one is configured.
func (s *Server) setupServices() error {
	if s.authProviders == nil || s.authProviders.PasswordCfg == nil {
		return fmt.Errorf("password config not initialized")
	}

	mailer, err := service.NewMailer(&s.Config.Mail)
	if err != nil {
		return fmt.Errorf("failed to set up mailer: %w", err)
	}

	var generator service.ContentGenerator
	if s.Config.Chat.Configured() {
		client, err := gemini.NewClient(&s.Config.Chat)
		if err != nil {
			return fmt.Errorf("failed to set up chat client: %w", err)
		}
		generator = client
	} else {
		log.Warn().Msg("Chat API key is not configured, chat requests will be rejected")
	}

	s.services.authService = service.NewAuthService(
		s.repos.userRepo,
		s.repos.chatRepo,
		s.authProviders.PasswordCfg,
	)

	s.services.resetService = service.NewPasswordResetService(
		s.repos.userRepo,
		s.repos.tokenRepo,
		mailer,
		s.authProviders.PasswordCfg,
		s.Config.Reset.CodeTTL,
	)

	s.services.chatService = service.NewChatService(s.repos.chatRepo, generator)

	return nil
}

// setupHandlers initializes all HTTP request handlers.
func (s *Server) setupHandlers() error {
	sessions := s.authProviders.Sessions

	s.Handlers = &Handlers{
		AuthHandler:   handlers.NewAuthHandler(s.services.authService, sessions),
		ResetHandler:  handlers.NewPasswordResetHandler(s.services.resetService, sessions),
		ChatHandler:   handlers.NewChatHandler(s.services.chatService, sessions),
		SystemHandler: handlers.NewSystemHandler(s.Store, s.Config.Store.Backend, s.build),
	}

	if dir := s.Config.Server.StaticDir; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("static directory unavailable: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("static path %s is not a directory", dir)
		}
		s.Handlers.PageHandler = handlers.NewPageHandler(dir)
	}

	return nil
}

// setupRateLimits creates the per-client limiter store when throttling is enabled.
func (s *Server) setupRateLimits() {
	if !s.Config.RateLimit.Enabled {
		log.Warn().Msg("Rate limiting is disabled")
		return
	}

	perMinute := s.Config.RateLimit.RequestsPerMinute
	burst := s.Config.RateLimit.Burst

	s.limiters = ratelimit.NewStore(ratelimit.PerMinute(perMinute, burst))

	resetPerMinute := perMinute / constants.ResetRateDivisor
	if resetPerMinute < 1 {
		resetPerMinute = 1
	}
	s.limiters.SetRate(constants.RateCategoryReset, ratelimit.PerMinute(resetPerMinute, burst))
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal is received, then shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Str(constants.LogFieldBackend, s.Config.Store.Backend).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		s.stopMaintenanceTasks()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown waits for in-flight requests, stops the maintenance loop and
// closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.stopMaintenanceTasks()

	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	log.Info().Msg("Store closed")

	return nil
}

// SetupMaintenanceTasks starts a background loop that removes expired store
// records and idle rate limiter buckets every store cleanup interval.
func (s *Server) SetupMaintenanceTasks() {
	if s.stopMaintenance != nil {
		return
	}

	interval := s.Config.Store.CleanupInterval
	if interval <= 0 {
		interval = constants.StoreCleanupInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopMaintenance = cancel

	ticker := time.NewTicker(interval)
	s.maintenanceDone.Add(1)
	go func() {
		defer s.maintenanceDone.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runMaintenance(ctx)
			}
		}
	}()
}

func (s *Server) stopMaintenanceTasks() {
	if s.stopMaintenance == nil {
		return
	}
	s.stopMaintenance()
	s.maintenanceDone.Wait()
	s.stopMaintenance = nil
}

// runMaintenance performs a single cleanup pass.
func (s *Server) runMaintenance(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, constants.MaintenanceTimeout)
	defer cancel()

	if sweeper, ok := s.Store.(kvstore.Sweeper); ok {
		if count, err := sweeper.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to sweep expired store records")
		} else if count > 0 {
			log.Info().Int("count", count).Msg("Swept expired store records")
		}
	}

	if s.limiters != nil {
		if count := s.limiters.Cleanup(constants.RateLimiterIdleTTL); count > 0 {
			log.Debug().Int("count", count).Msg("Evicted idle rate limiters")
		}
	}
}
