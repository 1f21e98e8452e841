package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

func TestPasswordResetHandler_ForgotPassword(t *testing.T) {
	tests := []struct {
		name      string
		body      interface{}
		wantEmail string
	}{
		{
			name:      "Known shape",
			body:      map[string]string{"email": "user@example.com"},
			wantEmail: "user@example.com",
		},
		{
			name:      "Extra keys are ignored",
			body:      map[string]interface{}{"email": "user@example.com", "extra": 1},
			wantEmail: "user@example.com",
		},
		{
			name: "Email of the wrong type",
			body: map[string]interface{}{"email": 42},
		},
		{
			name:      "Overlong email",
			body:      map[string]string{"email": strings.Repeat("a", 300) + "@example.com"},
			wantEmail: strings.Repeat("a", 300) + "@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotEmail := "unset"
			svc := &MockPasswordResetService{
				ForgotPasswordFunc: func(_ context.Context, email string) error {
					gotEmail = email
					return nil
				},
			}
			handler := NewPasswordResetHandler(svc, &MockSessionSaver{})

			rr := httptest.NewRecorder()
			handler.ForgotPassword(rr, newRequest(t, http.MethodPost, "/api/forgot_password", tt.body, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			var data models.MessageResponse
			decodeResponse(t, rr, &data)
			assert.Equal(t, constants.MsgResetCodeSent, data.Message)
			assert.Equal(t, tt.wantEmail, gotEmail)
		})
	}
}

func TestPasswordResetHandler_VerifyCode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		saver := &MockSessionSaver{}
		svc := &MockPasswordResetService{
			VerifyCodeFunc: func(_ context.Context, session *models.Session, email, code string) error {
				assert.Equal(t, "123456", code)
				session.ResetEmail = email
				return nil
			},
		}
		handler := NewPasswordResetHandler(svc, saver)

		rr := httptest.NewRecorder()
		handler.VerifyCode(rr, newRequest(t, http.MethodPost, "/api/verify_code",
			map[string]string{"email": "user@example.com", "code": "123456"}, models.NewSession("s1")))

		assert.Equal(t, http.StatusOK, rr.Code)
		var data models.MessageResponse
		decodeResponse(t, rr, &data)
		assert.Equal(t, constants.MsgResetCodeVerified, data.Message)
		assert.Equal(t, constants.PageReset, data.Redirect)
		require.Len(t, saver.Saved, 1)
		assert.Equal(t, "user@example.com", saver.Saved[0].ResetEmail)
	})

	t.Run("Code of any shape reaches the service", func(t *testing.T) {
		var gotCode string
		svc := &MockPasswordResetService{
			VerifyCodeFunc: func(_ context.Context, _ *models.Session, _, code string) error {
				gotCode = code
				return utils.NewBadRequestError(constants.MsgResetCodeInvalid)
			},
		}
		handler := NewPasswordResetHandler(svc, &MockSessionSaver{})

		rr := httptest.NewRecorder()
		handler.VerifyCode(rr, newRequest(t, http.MethodPost, "/api/verify_code",
			map[string]string{"email": "user@example.com", "code": "12a" + strings.Repeat("9", 40)}, models.NewSession("s1")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, constants.MsgResetCodeInvalid, resp.Error.Message)
		assert.Equal(t, "12a"+strings.Repeat("9", 40), gotCode)
	})

	failures := []struct {
		name string
		err  error
		msg  string
	}{
		{name: "No token", err: utils.NewInvalidTokenError(constants.MsgResetProcessExpired), msg: constants.MsgResetProcessExpired},
		{name: "Expired", err: utils.NewExpiredTokenError(constants.MsgResetCodeExpired), msg: constants.MsgResetCodeExpired},
		{name: "Mismatch", err: utils.NewInvalidTokenError(constants.MsgResetCodeInvalid), msg: constants.MsgResetCodeInvalid},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			saver := &MockSessionSaver{}
			svc := &MockPasswordResetService{
				VerifyCodeFunc: func(context.Context, *models.Session, string, string) error { return tt.err },
			}
			handler := NewPasswordResetHandler(svc, saver)

			rr := httptest.NewRecorder()
			handler.VerifyCode(rr, newRequest(t, http.MethodPost, "/api/verify_code",
				map[string]string{"email": "user@example.com", "code": "000000"}, models.NewSession("s1")))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeResponse(t, rr, nil)
			assert.Equal(t, tt.msg, resp.Error.Message)
			assert.Empty(t, saver.Saved)
		})
	}
}

func TestPasswordResetHandler_ResetPassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		saver := &MockSessionSaver{}
		svc := &MockPasswordResetService{
			ResetPasswordFunc: func(_ context.Context, session *models.Session, password string) error {
				assert.Equal(t, "new-password", password)
				session.PopResetEmail()
				return nil
			},
		}
		handler := NewPasswordResetHandler(svc, saver)
		session := models.NewSession("s1")
		session.ResetEmail = "user@example.com"

		rr := httptest.NewRecorder()
		handler.ResetPassword(rr, newRequest(t, http.MethodPost, "/api/reset_password",
			map[string]string{"password": "new-password"}, session))

		assert.Equal(t, http.StatusOK, rr.Code)
		var data models.MessageResponse
		decodeResponse(t, rr, &data)
		assert.Equal(t, constants.MsgPasswordUpdated, data.Message)
		require.Len(t, saver.Saved, 1)
		assert.Empty(t, saver.Saved[0].ResetEmail)
	})

	t.Run("Failure still saves the consumed authorization", func(t *testing.T) {
		saver := &MockSessionSaver{}
		svc := &MockPasswordResetService{
			ResetPasswordFunc: func(_ context.Context, session *models.Session, _ string) error {
				session.PopResetEmail()
				return utils.NewBadRequestError(constants.MsgResetPasswordEmpty)
			},
		}
		handler := NewPasswordResetHandler(svc, saver)
		session := models.NewSession("s1")
		session.ResetEmail = "user@example.com"

		rr := httptest.NewRecorder()
		handler.ResetPassword(rr, newRequest(t, http.MethodPost, "/api/reset_password",
			map[string]string{"password": ""}, session))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, constants.MsgResetPasswordEmpty, resp.Error.Message)
		require.Len(t, saver.Saved, 1)
		assert.Empty(t, saver.Saved[0].ResetEmail)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		svc := &MockPasswordResetService{
			ResetPasswordFunc: func(context.Context, *models.Session, string) error {
				return utils.NewUnauthorizedError(constants.MsgResetUnauthorized)
			},
		}
		handler := NewPasswordResetHandler(svc, &MockSessionSaver{})

		rr := httptest.NewRecorder()
		handler.ResetPassword(rr, newRequest(t, http.MethodPost, "/api/reset_password",
			map[string]string{"password": "x"}, models.NewSession("s1")))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, constants.CodeUnauthorized, resp.Error.Code)
	})
}
