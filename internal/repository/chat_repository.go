package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/kvstore"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
)

// ChatRepository stores conversation histories by chat ID
type ChatRepository interface {
	Get(ctx context.Context, chatID string) (models.ChatHistory, error)
	Create(ctx context.Context, chatID string) (bool, error)
	Save(ctx context.Context, chatID string, history models.ChatHistory) error
	Delete(ctx context.Context, chatID string) error
}

// KVChatRepository keeps histories under the chat: prefix. Histories live
// until the owning session logs out or starts a new chat.
type KVChatRepository struct {
	store kvstore.Store
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(store kvstore.Store) ChatRepository {
	return &KVChatRepository{
		store: store,
	}
}

func chatKey(chatID string) string {
	return constants.KeyPrefixChat + chatID
}

// Get returns the history of chatID. A missing history is returned as empty.
func (r *KVChatRepository) Get(ctx context.Context, chatID string) (models.ChatHistory, error) {
	var history models.ChatHistory
	if err := getJSON(ctx, r.store, chatKey(chatID), &history); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return models.ChatHistory{}, nil
		}
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	if history == nil {
		history = models.ChatHistory{}
	}
	return history, nil
}

// Create stores an empty history under chatID unless one already exists.
// It reports false when the id is taken.
func (r *KVChatRepository) Create(ctx context.Context, chatID string) (bool, error) {
	created, err := putJSONIfAbsent(ctx, r.store, chatKey(chatID), models.ChatHistory{}, 0)
	if err != nil {
		return false, fmt.Errorf("failed to create chat history: %w", err)
	}
	return created, nil
}

// Save replaces the stored history
func (r *KVChatRepository) Save(ctx context.Context, chatID string, history models.ChatHistory) error {
	if history == nil {
		history = models.ChatHistory{}
	}
	if err := putJSON(ctx, r.store, chatKey(chatID), history, 0); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}

// Delete removes the history of chatID
func (r *KVChatRepository) Delete(ctx context.Context, chatID string) error {
	if err := deleteKey(ctx, r.store, chatKey(chatID)); err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	return nil
}
