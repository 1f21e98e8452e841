package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// requestSession returns the session attached by the session middleware.
// It writes a 500 response when none is present.
func requestSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	session, ok := auth.GetSession(r.Context())
	if !ok {
		utils.Error(w, constants.StatusInternalServerError, constants.CodeInternalError, constants.MsgSessionUnavailable, nil)
		return nil, false
	}
	return session, true
}

// saveSession persists session before the response body is written, so that
// the refreshed cookie goes out with it.
func saveSession(w http.ResponseWriter, r *http.Request, sessions SessionSaver, session *models.Session) bool {
	if err := sessions.Save(r.Context(), w, session); err != nil {
		utils.LogError(err, map[string]interface{}{
			constants.LogFieldRequestID: middleware.GetReqID(r.Context()),
			constants.LogFieldSessionID: session.ID,
		})
		utils.Error(w, constants.StatusInternalServerError, constants.CodeInternalError, constants.MsgSessionUnavailable, nil)
		return false
	}
	return true
}

// writeError sends err as an envelope. Server side failures are logged with
// their developer details first.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := utils.ParseError(err)
	if appErr.StatusCode >= constants.StatusInternalServerError {
		utils.LogError(err, map[string]interface{}{
			constants.LogFieldRequestID: middleware.GetReqID(r.Context()),
			"path":                      r.URL.Path,
			"dev_info":                  appErr.DevInfo,
		})
	}
	utils.ErrorFromAppError(w, appErr)
}
