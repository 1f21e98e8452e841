package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendResetCode(ctx context.Context, toEmail, code string, validFor time.Duration) error
}

// NewMailer returns the mailer selected by the configuration.
func NewMailer(cfg *config.MailSettings) (Mailer, error) {
	switch cfg.Provider {
	case constants.MailProviderLog, "":
		return &LogMailer{}, nil
	case constants.MailProviderSMTP:
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp mail provider requires a host")
		}
		return NewSMTPMailer(cfg), nil
	case constants.MailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY not set")
		}
		return NewSendGridMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
}

func resetMailContent(code string, validFor time.Duration) (string, string) {
	minutes := int(validFor.Minutes())
	plain := fmt.Sprintf(constants.MsgResetMailBodyFormat, code, minutes)
	html := fmt.Sprintf(constants.MsgResetMailHTMLFormat, code, minutes)
	return plain, html
}

// LogMailer writes reset codes to the log instead of sending them.
// It is meant for development only.
type LogMailer struct{}

// SendResetCode logs the code
func (m *LogMailer) SendResetCode(_ context.Context, toEmail, code string, validFor time.Duration) error {
	plain, _ := resetMailContent(code, validFor)

	log.Warn().
		Str(constants.LogFieldEmail, utils.MaskEmail(toEmail)).
		Str("subject", constants.MsgResetMailSubject).
		Str("body", plain).
		Msg(constants.MsgSimulatedMailWarning)

	return nil
}

// SMTPMailer sends reset codes through an SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg *config.MailSettings) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
		sendMail: smtp.SendMail,
	}
}

// SendResetCode sends the code as an HTML mail
func (m *SMTPMailer) SendResetCode(_ context.Context, toEmail, code string, validFor time.Duration) error {
	_, html := resetMailContent(code, validFor)
	msg := m.buildMessage(toEmail, constants.MsgResetMailSubject, html)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := m.host + ":" + strconv.Itoa(m.port)

	if err := m.sendMail(addr, auth, m.from, []string{toEmail}, msg); err != nil {
		log.Error().Err(err).Str(constants.LogFieldEmail, utils.MaskEmail(toEmail)).Msg("Failed to send email")
		return err
	}

	log.Info().Str(constants.LogFieldEmail, utils.MaskEmail(toEmail)).Msg("Password reset email sent")
	return nil
}

func (m *SMTPMailer) buildMessage(to, subject, body string) []byte {
	from := fmt.Sprintf("%s <%s>", m.fromName, m.from)

	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, to, subject, body,
	))
}

// SendGridMailer sends reset codes through the SendGrid API.
type SendGridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridMailer creates a new SendGridMailer
func NewSendGridMailer(cfg *config.MailSettings) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// SendResetCode sends the code. Any non 2xx answer is an error.
func (m *SendGridMailer) SendResetCode(ctx context.Context, toEmail, code string, validFor time.Duration) error {
	plain, html := resetMailContent(code, validFor)

	from := mail.NewEmail(m.fromName, m.from)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, constants.MsgResetMailSubject, to, plain, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send password reset email")
		return err
	}
	if response.StatusCode >= 300 {
		log.Error().Int("status_code", response.StatusCode).Msg("SendGrid rejected password reset email")
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	log.Info().Int("status_code", response.StatusCode).Msg("Password reset email sent")
	return nil
}
