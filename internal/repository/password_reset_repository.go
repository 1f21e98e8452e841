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

// ResetTokenRepository stores the pending reset code of each email address.
// Get returns (nil, nil) when no token exists.
type ResetTokenRepository interface {
	Save(ctx context.Context, token *models.ResetToken) error
	Get(ctx context.Context, email string) (*models.ResetToken, error)
	Delete(ctx context.Context, email string) error
}

// KVResetTokenRepository keeps reset tokens under the reset: prefix. Records
// outlive their logical expiry by the retention period.
type KVResetTokenRepository struct {
	store     kvstore.Store
	retention time.Duration
	now       func() time.Time
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(store kvstore.Store) ResetTokenRepository {
	return &KVResetTokenRepository{
		store:     store,
		retention: constants.ResetTokenRetention,
		now:       time.Now,
	}
}

func resetKey(email string) string {
	return constants.KeyPrefixReset + email
}

// Save replaces any previous token for the same email.
func (r *KVResetTokenRepository) Save(ctx context.Context, token *models.ResetToken) error {
	ttl := token.ExpiresAt.Sub(r.now()) + r.retention
	if ttl <= 0 {
		ttl = r.retention
	}

	if err := putJSON(ctx, r.store, resetKey(token.Email), token, ttl); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

// Get returns the token for email, or nil if none is stored.
func (r *KVResetTokenRepository) Get(ctx context.Context, email string) (*models.ResetToken, error) {
	token := &models.ResetToken{}
	if err := getJSON(ctx, r.store, resetKey(email), token); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return token, nil
}

// Delete removes the token for email
func (r *KVResetTokenRepository) Delete(ctx context.Context, email string) error {
	if err := deleteKey(ctx, r.store, resetKey(email)); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
