package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/chatbridge/internal/auth"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterUserFunc func(ctx context.Context, creds *models.UserCredentials) (*models.User, error)
	LoginFunc        func(ctx context.Context, session *models.Session, req *models.LoginRequest) error
	LogoutFunc       func(ctx context.Context, session *models.Session) error
}

func (m *MockAuthService) RegisterUser(ctx context.Context, creds *models.UserCredentials) (*models.User, error) {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, creds)
	}
	return models.NewUser(creds.Email, "hash", "salt"), nil
}

func (m *MockAuthService) Login(ctx context.Context, session *models.Session, req *models.LoginRequest) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, session, req)
	}
	session.Login(req.Email)
	return nil
}

func (m *MockAuthService) Logout(ctx context.Context, session *models.Session) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, session)
	}
	session.Logout()
	return nil
}

func (m *MockAuthService) Status(session *models.Session) *models.AuthStatusResponse {
	if !session.IsAuthenticated() {
		return &models.AuthStatusResponse{}
	}
	return &models.AuthStatusResponse{Authenticated: true, Email: session.Email}
}

// MockPasswordResetService implements PasswordResetServiceInterface for testing
type MockPasswordResetService struct {
	ForgotPasswordFunc func(ctx context.Context, email string) error
	VerifyCodeFunc     func(ctx context.Context, session *models.Session, email, code string) error
	ResetPasswordFunc  func(ctx context.Context, session *models.Session, password string) error
}

func (m *MockPasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *MockPasswordResetService) VerifyCode(ctx context.Context, session *models.Session, email, code string) error {
	return m.VerifyCodeFunc(ctx, session, email, code)
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, session *models.Session, password string) error {
	return m.ResetPasswordFunc(ctx, session, password)
}

// MockChatService implements ChatServiceInterface for testing
type MockChatService struct {
	SendMessageFunc func(ctx context.Context, session *models.Session, message string) (string, error)
	NewChatFunc     func(ctx context.Context, session *models.Session) error
}

func (m *MockChatService) SendMessage(ctx context.Context, session *models.Session, message string) (string, error) {
	return m.SendMessageFunc(ctx, session, message)
}

func (m *MockChatService) NewChat(ctx context.Context, session *models.Session) error {
	return m.NewChatFunc(ctx, session)
}

// MockSessionSaver records saved sessions
type MockSessionSaver struct {
	SaveFunc func(ctx context.Context, w http.ResponseWriter, session *models.Session) error
	Saved    []models.Session
}

func (m *MockSessionSaver) Save(ctx context.Context, w http.ResponseWriter, session *models.Session) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, w, session); err != nil {
			return err
		}
	}
	m.Saved = append(m.Saved, *session)
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "token-" + session.ID})
	return nil
}

// MockPinger implements StorePinger for testing
type MockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// newRequest builds a JSON request carrying session in its context
func newRequest(t *testing.T, method, path string, body interface{}, session *models.Session) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req = req.WithContext(auth.WithSession(req.Context(), session))
	}
	return req
}

// decodeResponse parses the envelope and decodes its data into data
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) utils.Response {
	t.Helper()

	var envelope struct {
		Success bool             `json:"success"`
		Data    json.RawMessage  `json:"data"`
		Error   *utils.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))

	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}

	return utils.Response{Success: envelope.Success, Error: envelope.Error}
}
