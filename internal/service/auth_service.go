package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/repository"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// AuthService handles registration, login and logout. Session state is
// mutated in place; persisting it is the caller's job.
type AuthService struct {
	userRepo    repository.UserRepository
	chatRepo    repository.ChatRepository
	passwordCfg *auth.PasswordConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	passwordCfg *auth.PasswordConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		passwordCfg: passwordCfg,
	}
}

// RegisterUser creates a new user account
func (s *AuthService) RegisterUser(ctx context.Context, creds *models.UserCredentials) (*models.User, error) {
	email := utils.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, utils.NewBadRequestError(constants.MsgMissingCredentials)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		utils.LogAuth(constants.LogCategoryAuth, constants.LogEventRegister, email, false, "email taken")
		return nil, utils.NewDuplicateError(constants.MsgUserExists)
	}

	passwordHash, salt, err := auth.HashPassword(creds.Password, s.passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create is atomic, so a concurrent registration that slipped past the
	// existence check still ends in a duplicate error here
	user := models.NewUser(email, passwordHash, salt)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if utils.IsDuplicateError(err) {
			utils.LogAuth(constants.LogCategoryAuth, constants.LogEventRegister, email, false, "email taken")
		}
		return nil, err
	}

	utils.LogAuth(constants.LogCategoryAuth, constants.LogEventRegister, email, true, "")

	return user, nil
}

// Login verifies the credentials and marks the session as logged in.
// Any conversation the session had is discarded.
func (s *AuthService) Login(ctx context.Context, session *models.Session, req *models.LoginRequest) error {
	email := utils.NormalizeEmail(req.Email)
	if email == "" {
		return utils.NewInvalidCredentialsError()
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth(constants.LogCategoryAuth, constants.LogEventLogin, email, false, "user not found")
			return utils.NewInvalidCredentialsError()
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth(constants.LogCategoryAuth, constants.LogEventLogin, email, false, "invalid password")
		return utils.NewInvalidCredentialsError()
	}

	previousChat := session.ChatID
	session.Login(user.Email)
	s.discardChat(ctx, previousChat)

	utils.LogAuth(constants.LogCategoryAuth, constants.LogEventLogin, email, true, "")

	return nil
}

// Logout clears the session's login state and deletes its conversation
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	email := session.Email
	chatID := session.Logout()

	if chatID != "" {
		if err := s.chatRepo.Delete(ctx, chatID); err != nil {
			return fmt.Errorf("failed to delete chat history: %w", err)
		}
	}

	if email != "" {
		utils.LogAuth(constants.LogCategoryAuth, constants.LogEventLogout, email, true, "")
	}

	return nil
}

// Status reports the session's authentication state
func (s *AuthService) Status(session *models.Session) *models.AuthStatusResponse {
	if !session.IsAuthenticated() {
		return &models.AuthStatusResponse{Authenticated: false}
	}
	return &models.AuthStatusResponse{Authenticated: true, Email: session.Email}
}

// discardChat removes a history that no session refers to any more
func (s *AuthService) discardChat(ctx context.Context, chatID string) {
	if chatID == "" {
		return
	}
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		log.Warn().Err(err).Str(constants.LogFieldChatID, chatID).Msg("Failed to delete previous chat history")
	}
}
