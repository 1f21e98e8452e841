package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// AuthHandler handles account routes
type AuthHandler struct {
	authService AuthServiceInterface
	sessions    SessionSaver
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, sessions SessionSaver) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.authService.RegisterUser(r.Context(), &creds); err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, models.MessageResponse{Message: constants.MsgRegistrationSuccess})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	var req models.LoginRequest
	if err := utils.DecodeJSONLenient(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.authService.Login(r.Context(), session, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if !saveSession(w, r, h.sessions, session) {
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{
		Message:  constants.MsgLoginSuccess,
		Redirect: constants.PageHome,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}

	if !saveSession(w, r, h.sessions, session) {
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{Message: constants.MsgLogoutSuccess})
}

// CheckAuth reports the caller's login state. Anonymous callers get a 401
// that still carries {authenticated:false}.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	status := h.authService.Status(session)
	if !status.Authenticated {
		utils.ErrorWithData(w, constants.StatusUnauthorized, constants.CodeUnauthorized, constants.MsgAuthRequired, nil, status)
		return
	}

	utils.JSON(w, http.StatusOK, status)
}
