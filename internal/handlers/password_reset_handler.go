package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// PasswordResetHandler handles the three steps of the password reset flow.
type PasswordResetHandler struct {
	resetService PasswordResetServiceInterface
	sessions     SessionSaver
}

// NewPasswordResetHandler creates a new PasswordResetHandler with its dependencies.
func NewPasswordResetHandler(resetService PasswordResetServiceInterface, sessions SessionSaver) *PasswordResetHandler {
	return &PasswordResetHandler{
		resetService: resetService,
		sessions:     sessions,
	}
}

// ForgotPassword handles the request to initiate a password reset.
// The answer is the same whether or not the email belongs to an account.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeJSONLenient(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.resetService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{Message: constants.MsgResetCodeSent})
}

// VerifyCode checks the emailed code and, on success, authorizes the session
// to choose a new password.
func (h *PasswordResetHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	var req models.VerifyCodeRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.resetService.VerifyCode(r.Context(), session, req.Email, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	if !saveSession(w, r, h.sessions, session) {
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{
		Message:  constants.MsgResetCodeVerified,
		Redirect: constants.PageReset,
	})
}

// ResetPassword sets the new password. The session's authorization is spent
// by every attempt, successful or not.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resetErr := h.resetService.ResetPassword(r.Context(), session, req.Password)

	if !saveSession(w, r, h.sessions, session) {
		return
	}

	if resetErr != nil {
		writeError(w, r, resetErr)
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{Message: constants.MsgPasswordUpdated})
}
