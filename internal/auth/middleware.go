// Package auth provides password hashing, the signed session cookie and the
// middleware that attaches server-side session state to each request.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/repository"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// SessionContextKey is the context key holding the request's *models.Session.
const SessionContextKey ContextKey = "session"

// SessionManager loads the session referenced by the request cookie and
// persists it back on demand. Requests without a valid cookie get a fresh,
// unsaved session.
type SessionManager struct {
	tokens SessionTokenProvider
	repo   repository.SessionRepository
	cfg    *config.SessionSettings
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(tokens SessionTokenProvider, repo repository.SessionRepository, cfg *config.SessionSettings) *SessionManager {
	return &SessionManager{
		tokens: tokens,
		repo:   repo,
		cfg:    cfg,
	}
}

// Middleware attaches the caller's session to the request context.
// Tampered, expired and unknown cookies are ignored.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.load(r)
		if err != nil {
			utils.LogError(err, map[string]interface{}{
				constants.LogFieldRequestID: middleware.GetReqID(r.Context()),
				"path":                      r.URL.Path,
			})
			utils.Error(w, constants.StatusInternalServerError, constants.CodeInternalError, constants.MsgSessionUnavailable, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (m *SessionManager) load(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return m.newSession(), nil
	}

	sessionID, err := m.tokens.ValidateSessionToken(cookie.Value)
	if err != nil {
		log.Debug().
			Err(err).
			Str(constants.LogFieldRequestID, middleware.GetReqID(r.Context())).
			Msg("Ignoring invalid session cookie")
		return m.newSession(), nil
	}

	session, err := m.repo.Get(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return m.newSession(), nil
	}

	return session, nil
}

func (m *SessionManager) newSession() *models.Session {
	return models.NewSession(uuid.New().String())
}

// Save persists session and refreshes the cookie so that both the stored
// record and the browser token start a new ttl.
func (m *SessionManager) Save(ctx context.Context, w http.ResponseWriter, session *models.Session) error {
	if err := m.repo.Save(ctx, session); err != nil {
		return err
	}

	token, err := m.tokens.GenerateSessionToken(session.ID)
	if err != nil {
		return fmt.Errorf("failed to issue session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// RequireSession redirects to the index page unless allow accepts the
// request's session. It is used to guard the static pages.
func RequireSession(allow func(*models.Session) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok || !allow(session) {
				http.Redirect(w, r, constants.PageIndex, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsLoggedIn accepts authenticated sessions.
func IsLoggedIn(session *models.Session) bool {
	return session.IsAuthenticated()
}

// HasResetAuthorization accepts sessions that verified a reset code.
func HasResetAuthorization(session *models.Session) bool {
	return session != nil && session.ResetEmail != ""
}

// GetSession extracts the session from the context.
// It returns the session and a boolean indicating if it was found.
func GetSession(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	return session, ok && session != nil
}

// WithSession returns a context carrying session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}
