package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/repository"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// ContentGenerator produces the next model turn for a conversation.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, history models.ChatHistory) (string, error)
}

// ChatService proxies chat messages to the generative API and keeps one
// history per session.
type ChatService struct {
	chatRepo  repository.ChatRepository
	generator ContentGenerator

	generateID func() (string, error)
}

// NewChatService creates a new ChatService. A nil generator means no API key
// is configured and every chat call is refused.
func NewChatService(chatRepo repository.ChatRepository, generator ContentGenerator) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		generator:  generator,
		generateID: auth.GenerateChatID,
	}
}

// Configured reports whether chat calls can be served
func (s *ChatService) Configured() bool {
	return s.generator != nil
}

// EnsureChat returns the session's chat id, assigning a new one backed by an
// empty history if it has none.
func (s *ChatService) EnsureChat(ctx context.Context, session *models.Session) (string, error) {
	if session.ChatID != "" {
		return session.ChatID, nil
	}

	chatID, err := s.claimChatID(ctx)
	if err != nil {
		return "", err
	}

	session.ChatID = chatID
	log.Debug().
		Str("category", constants.LogCategoryChat).
		Str(constants.LogFieldChatID, chatID).
		Msg("Chat started")

	return chatID, nil
}

// claimChatID draws random ids until one is not held by another history.
func (s *ChatService) claimChatID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < constants.ChatIDAttempts; attempt++ {
		chatID, err := s.generateID()
		if err != nil {
			return "", fmt.Errorf("failed to generate chat id: %w", err)
		}

		created, err := s.chatRepo.Create(ctx, chatID)
		if err != nil {
			return "", err
		}
		if created {
			return chatID, nil
		}

		log.Warn().Str(constants.LogFieldChatID, chatID).Msg("Chat id collision, drawing another")
	}

	return "", fmt.Errorf("failed to allocate a chat id after %d attempts", constants.ChatIDAttempts)
}

// SendMessage appends message to the session's conversation, asks the model
// for a reply and stores both turns. On a failed upstream call nothing is
// stored.
func (s *ChatService) SendMessage(ctx context.Context, session *models.Session, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", utils.NewBadRequestError(constants.MsgMissingMessage)
	}
	if !s.Configured() {
		return "", utils.NewServiceUnavailableError(constants.MsgChatKeyMissing)
	}

	chatID, err := s.EnsureChat(ctx, session)
	if err != nil {
		return "", err
	}

	history, err := s.chatRepo.Get(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to load chat history: %w", err)
	}

	history = append(history, models.NewChatMessage(constants.ChatRoleUser, message))

	reply, err := s.generator.GenerateContent(ctx, history)
	if err != nil {
		log.Error().Err(err).Str(constants.LogFieldChatID, chatID).Int("turns", len(history)).Msg("Chat request failed")
		return "", utils.NewUpstreamError(constants.MsgChatUpstreamFailure, err)
	}

	history = append(history, models.NewChatMessage(constants.ChatRoleModel, reply))
	if err := s.chatRepo.Save(ctx, chatID, history); err != nil {
		return "", fmt.Errorf("failed to save chat history: %w", err)
	}

	log.Debug().Str(constants.LogFieldChatID, chatID).Int("turns", len(history)).Msg("Chat reply stored")

	return reply, nil
}

// NewChat forgets the session's conversation. The next message starts a
// fresh history under a new id.
func (s *ChatService) NewChat(ctx context.Context, session *models.Session) error {
	chatID := session.ChatID
	session.ChatID = ""

	if chatID == "" {
		return nil
	}
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	return nil
}
