package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// ChatHandler handles the chat proxy routes
type ChatHandler struct {
	chatService ChatServiceInterface
	sessions    SessionSaver
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService ChatServiceInterface, sessions SessionSaver) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sessions:    sessions,
	}
}

// Chat forwards a message to the model and returns its reply
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	chatID := session.ChatID
	reply, err := h.chatService.SendMessage(r.Context(), session, req.Message)

	// A chat id assigned during a failed call still has to reach the session
	if session.ChatID != chatID {
		if !saveSession(w, r, h.sessions, session) {
			return
		}
	}

	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.ChatReply{Response: reply})
}

// NewChat discards the current conversation
func (h *ChatHandler) NewChat(w http.ResponseWriter, r *http.Request) {
	session, ok := requestSession(w, r)
	if !ok {
		return
	}

	if err := h.chatService.NewChat(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}

	if !saveSession(w, r, h.sessions, session) {
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{Message: constants.MsgNewChatStarted})
}
