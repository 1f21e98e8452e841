package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/repository"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// PasswordResetService implements the emailed code reset flow:
// request a code, verify it, then set a new password.
type PasswordResetService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.ResetTokenRepository
	mailer      Mailer
	passwordCfg *auth.PasswordConfig
	codeTTL     time.Duration

	// verifyMu makes the read, compare and delete of a token one step
	verifyMu sync.Mutex

	now          func() time.Time
	generateCode func() (string, error)
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	userRepo repository.UserRepository,
	tokenRepo repository.ResetTokenRepository,
	mailer Mailer,
	passwordCfg *auth.PasswordConfig,
	codeTTL time.Duration,
) *PasswordResetService {
	if codeTTL <= 0 {
		codeTTL = constants.DefaultResetCodeTTL
	}
	return &PasswordResetService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		mailer:       mailer,
		passwordCfg:  passwordCfg,
		codeTTL:      codeTTL,
		now:          time.Now,
		generateCode: auth.GenerateResetCode,
	}
}

// ForgotPassword issues and mails a code when the address belongs to an
// account. The outcome is never revealed to the caller: only a failed user
// lookup, which happens for every address, is returned as an error.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email existence: %w", err)
	}
	if !exists {
		utils.LogAuth(constants.LogCategoryReset, constants.LogEventForgotPassword, email, false, "unknown email")
		return nil
	}

	code, err := s.generateCode()
	if err != nil {
		utils.LogError(err, map[string]interface{}{constants.LogFieldEmail: email})
		return nil
	}

	token := models.NewResetToken(email, code, s.codeTTL)
	token.CreatedAt = s.now()
	token.ExpiresAt = token.CreatedAt.Add(s.codeTTL)

	if err := s.tokenRepo.Save(ctx, token); err != nil {
		utils.LogError(err, map[string]interface{}{constants.LogFieldEmail: email})
		return nil
	}

	if err := s.mailer.SendResetCode(ctx, email, code, s.codeTTL); err != nil {
		utils.LogError(err, map[string]interface{}{constants.LogFieldEmail: email, "stage": "mail"})
		return nil
	}

	utils.LogAuth(constants.LogCategoryReset, constants.LogEventForgotPassword, email, true, "")
	return nil
}

// VerifyCode checks a submitted code. On success the token is consumed and
// the session is authorized to set a new password for email.
func (s *PasswordResetService) VerifyCode(ctx context.Context, session *models.Session, email, code string) error {
	email = utils.NormalizeEmail(email)

	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()

	token, err := s.tokenRepo.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if token == nil {
		utils.LogAuth(constants.LogCategoryReset, constants.LogEventVerifyCode, email, false, "no token")
		return utils.NewInvalidTokenError(constants.MsgResetProcessExpired)
	}

	if token.IsExpired(s.now()) {
		if err := s.tokenRepo.Delete(ctx, email); err != nil {
			return fmt.Errorf("failed to delete expired reset token: %w", err)
		}
		utils.LogAuth(constants.LogCategoryReset, constants.LogEventVerifyCode, email, false, "expired")
		return utils.NewExpiredTokenError(constants.MsgResetCodeExpired)
	}

	if !auth.CodesEqual(token.Code, code) {
		utils.LogAuth(constants.LogCategoryReset, constants.LogEventVerifyCode, email, false, "code mismatch")
		return utils.NewInvalidTokenError(constants.MsgResetCodeInvalid)
	}

	if err := s.tokenRepo.Delete(ctx, email); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	session.ResetEmail = email

	utils.LogAuth(constants.LogCategoryReset, constants.LogEventVerifyCode, email, true, "")
	return nil
}

// ResetPassword sets a new password for the address the session verified.
// The authorization is consumed before anything else is checked, so a failed
// attempt requires verifying a new code.
func (s *PasswordResetService) ResetPassword(ctx context.Context, session *models.Session, password string) error {
	email := session.PopResetEmail()
	if email == "" {
		return utils.NewUnauthorizedError(constants.MsgResetUnauthorized)
	}

	if password == "" {
		return utils.NewBadRequestError(constants.MsgResetPasswordEmpty)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			log.Warn().Str(constants.LogFieldEmail, utils.MaskEmail(email)).Msg("Verified reset for a missing account")
			return utils.NewUnauthorizedError(constants.MsgResetUnauthorized)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	passwordHash, salt, err := auth.HashPassword(password, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.SetPassword(passwordHash, salt)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	utils.LogAuth(constants.LogCategoryReset, constants.LogEventResetPassword, email, true, "")
	return nil
}
