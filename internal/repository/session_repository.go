package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/kvstore"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
)

// SessionRepository stores browser sessions. Every Save extends the
// session's lifetime. Get returns (nil, nil) for unknown or expired IDs.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// KVSessionRepository keeps sessions under the session: prefix
type KVSessionRepository struct {
	store kvstore.Store
	ttl   time.Duration
}

// NewSessionRepository creates a new SessionRepository with a sliding ttl
func NewSessionRepository(store kvstore.Store, ttl time.Duration) SessionRepository {
	return &KVSessionRepository{
		store: store,
		ttl:   ttl,
	}
}

func sessionKey(id string) string {
	return constants.KeyPrefixSession + id
}

// Get retrieves a session by ID
func (r *KVSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	if err := getJSON(ctx, r.store, sessionKey(id), session); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Save writes the session and restarts its ttl
func (r *KVSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if err := putJSON(ctx, r.store, sessionKey(session.ID), session, r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session
func (r *KVSessionRepository) Delete(ctx context.Context, id string) error {
	if err := deleteKey(ctx, r.store, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
