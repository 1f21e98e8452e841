package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
)

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MailSettings
		want    interface{}
		wantErr bool
	}{
		{name: "Default is log", cfg: config.MailSettings{}, want: &LogMailer{}},
		{name: "Log", cfg: config.MailSettings{Provider: constants.MailProviderLog}, want: &LogMailer{}},
		{
			name: "SMTP",
			cfg:  config.MailSettings{Provider: constants.MailProviderSMTP, SMTP: config.SMTPSettings{Host: "smtp.example.com", Port: 587}},
			want: &SMTPMailer{},
		},
		{name: "SMTP without host", cfg: config.MailSettings{Provider: constants.MailProviderSMTP}, wantErr: true},
		{
			name: "SendGrid",
			cfg:  config.MailSettings{Provider: constants.MailProviderSendGrid, SendGridAPIKey: "SG.key"},
			want: &SendGridMailer{},
		},
		{name: "SendGrid without key", cfg: config.MailSettings{Provider: constants.MailProviderSendGrid}, wantErr: true},
		{name: "Unknown provider", cfg: config.MailSettings{Provider: "pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer, err := NewMailer(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, mailer)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, mailer)
		})
	}
}

func TestLogMailer_SendResetCode(t *testing.T) {
	mailer := &LogMailer{}
	assert.NoError(t, mailer.SendResetCode(context.Background(), "user@example.com", "123456", 5*time.Minute))
}

func TestSMTPMailer_SendResetCode(t *testing.T) {
	cfg := &config.MailSettings{
		Provider: constants.MailProviderSMTP,
		From:     "noreply@example.com",
		FromName: "Chat Support",
		SMTP: config.SMTPSettings{
			Host:     "smtp.example.com",
			Port:     2525,
			Username: "mailer",
			Password: "secret",
		},
	}

	t.Run("Success", func(t *testing.T) {
		mailer := NewSMTPMailer(cfg)
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		var gotAuth smtp.Auth
		mailer.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
			return nil
		}

		err := mailer.SendResetCode(context.Background(), "user@example.com", "123456", 5*time.Minute)
		require.NoError(t, err)

		assert.Equal(t, "smtp.example.com:2525", gotAddr)
		assert.NotNil(t, gotAuth)
		assert.Equal(t, "noreply@example.com", gotFrom)
		assert.Equal(t, []string{"user@example.com"}, gotTo)

		msg := string(gotMsg)
		assert.Contains(t, msg, "From: Chat Support <noreply@example.com>\r\n")
		assert.Contains(t, msg, "To: user@example.com\r\n")
		assert.Contains(t, msg, "Subject: "+constants.MsgResetMailSubject+"\r\n")
		assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
		assert.Contains(t, msg, "<strong>123456</strong>")
		assert.Contains(t, msg, "It expires in 5 minutes.")
	})

	t.Run("No auth without username", func(t *testing.T) {
		anonymous := *cfg
		anonymous.SMTP.Username = ""
		mailer := NewSMTPMailer(&anonymous)
		var gotAuth smtp.Auth = smtp.PlainAuth("", "x", "y", "z")
		mailer.sendMail = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
			gotAuth = a
			return nil
		}

		require.NoError(t, mailer.SendResetCode(context.Background(), "user@example.com", "123456", time.Minute))
		assert.Nil(t, gotAuth)
	})

	t.Run("Relay failure", func(t *testing.T) {
		mailer := NewSMTPMailer(cfg)
		mailer.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errBoom }

		err := mailer.SendResetCode(context.Background(), "user@example.com", "123456", time.Minute)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestSendGridMailer_SendResetCode(t *testing.T) {
	newMailer := func(t *testing.T, status int, captured *map[string]interface{}) *SendGridMailer {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			if captured != nil {
				_ = json.Unmarshal(body, captured)
			}
			w.WriteHeader(status)
		}))
		t.Cleanup(srv.Close)

		mailer := NewSendGridMailer(&config.MailSettings{
			Provider:       constants.MailProviderSendGrid,
			From:           "noreply@example.com",
			FromName:       "Chat Support",
			SendGridAPIKey: "SG.test",
		})
		mailer.client.BaseURL = srv.URL
		return mailer
	}

	t.Run("Accepted", func(t *testing.T) {
		var payload map[string]interface{}
		mailer := newMailer(t, http.StatusAccepted, &payload)

		err := mailer.SendResetCode(context.Background(), "user@example.com", "654321", 5*time.Minute)
		require.NoError(t, err)

		assert.Equal(t, constants.MsgResetMailSubject, payload["subject"])
		from, ok := payload["from"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "noreply@example.com", from["email"])

		raw, _ := json.Marshal(payload["content"])
		assert.Contains(t, string(raw), "654321")
	})

	t.Run("Rejected", func(t *testing.T) {
		mailer := newMailer(t, http.StatusUnauthorized, nil)

		err := mailer.SendResetCode(context.Background(), "user@example.com", "654321", 5*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
