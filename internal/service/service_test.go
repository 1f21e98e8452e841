package service

import (
	"context"
	"errors"
	"time"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
)

var errBoom = errors.New("boom")

func fastPasswordConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// MockMailer records reset codes instead of sending them
type MockMailer struct {
	SendResetCodeFunc func(ctx context.Context, toEmail, code string, validFor time.Duration) error
	Sent              map[string]string
}

func newMockMailer() *MockMailer {
	return &MockMailer{Sent: make(map[string]string)}
}

func (m *MockMailer) SendResetCode(ctx context.Context, toEmail, code string, validFor time.Duration) error {
	if m.SendResetCodeFunc != nil {
		if err := m.SendResetCodeFunc(ctx, toEmail, code, validFor); err != nil {
			return err
		}
	}
	m.Sent[toEmail] = code
	return nil
}

// MockGenerator implements ContentGenerator for testing
type MockGenerator struct {
	GenerateContentFunc func(ctx context.Context, history models.ChatHistory) (string, error)
	Calls               []models.ChatHistory
}

func (m *MockGenerator) GenerateContent(ctx context.Context, history models.ChatHistory) (string, error) {
	m.Calls = append(m.Calls, append(models.ChatHistory(nil), history...))
	return m.GenerateContentFunc(ctx, history)
}

// MockChatRepository implements repository.ChatRepository for testing
type MockChatRepository struct {
	GetFunc    func(ctx context.Context, chatID string) (models.ChatHistory, error)
	CreateFunc func(ctx context.Context, chatID string) (bool, error)
	SaveFunc   func(ctx context.Context, chatID string, history models.ChatHistory) error
	DeleteFunc func(ctx context.Context, chatID string) error
}

func (m *MockChatRepository) Get(ctx context.Context, chatID string) (models.ChatHistory, error) {
	return m.GetFunc(ctx, chatID)
}

func (m *MockChatRepository) Create(ctx context.Context, chatID string) (bool, error) {
	return m.CreateFunc(ctx, chatID)
}

func (m *MockChatRepository) Save(ctx context.Context, chatID string, history models.ChatHistory) error {
	return m.SaveFunc(ctx, chatID, history)
}

func (m *MockChatRepository) Delete(ctx context.Context, chatID string) error {
	return m.DeleteFunc(ctx, chatID)
}
