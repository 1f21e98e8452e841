package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/kvstore"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// KVUserRepository keeps users under the user: prefix without expiry
type KVUserRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store kvstore.Store) UserRepository {
	return &KVUserRepository{
		store: store,
	}
}

func userKey(email string) string {
	return constants.KeyPrefixUser + email
}

// Create stores a new user. It fails with a duplicate error if the email is taken.
func (r *KVUserRepository) Create(ctx context.Context, user *models.User) error {
	created, err := putJSONIfAbsent(ctx, r.store, userKey(user.Email), user, 0)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return utils.NewDuplicateError(constants.MsgUserExists)
	}

	log.Info().
		Str(constants.LogFieldEmail, utils.MaskEmail(user.Email)).
		Msg("User created")

	return nil
}

// GetByEmail retrieves a user by email
func (r *KVUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	if err := getJSON(ctx, r.store, userKey(email), user); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, utils.NewNotFoundError("User", utils.MaskEmail(email))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Update overwrites an existing user record
func (r *KVUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := putJSON(ctx, r.store, userKey(user.Email), user, 0); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *KVUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.store.Get(ctx, userKey(email))
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return true, nil
}
