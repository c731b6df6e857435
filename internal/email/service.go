package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/openseat/server/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service renders and sends transactional email. With Enabled=false every
// send logs the payload and succeeds, which keeps local development working
// without SMTP credentials.
type Service struct {
	config       config.EmailConfig
	templates    *template.Template
	resendClient *resend.Client
	logger       zerolog.Logger
}

// OTPData holds data for rendering the verification code email template.
type OTPData struct {
	Code          string
	ExpiryMinutes int
	CurrentYear   int
}

// ConfirmationData holds data for rendering the registration confirmation
// email template.
type ConfirmationData struct {
	Name        string
	Email       string
	Course      string
	EventTitle  string
	EventDate   string
	EventTime   string
	Venue       string
	CurrentYear int
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	s := &Service{
		config:    cfg,
		templates: templates,
		logger:    logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled && cfg.Provider == config.EmailProviderResend {
		s.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return s, nil
}

// SendOTP emails a verification code to the recipient.
func (s *Service) SendOTP(ctx context.Context, to, code string, expiry time.Duration) error {
	if err := validateEmailAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().
			Str("to", to).
			Str("code", code).
			Msg("email service disabled, skipping verification code email")
		return nil
	}

	data := OTPData{
		Code:          code,
		ExpiryMinutes: int(expiry.Minutes()),
		CurrentYear:   time.Now().Year(),
	}
	htmlBody, err := s.renderTemplate("otp.html", data)
	if err != nil {
		return fmt.Errorf("failed to render verification code template: %w", err)
	}

	subject := "Your Verification Code"
	if err := s.deliver(ctx, to, subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send verification code email: %w", err)
	}

	s.logger.Info().
		Str("to", to).
		Msg("verification code email sent")
	return nil
}

// SendConfirmation emails a registration confirmation with event details.
func (s *Service) SendConfirmation(ctx context.Context, data ConfirmationData) error {
	if err := validateEmailAddress(data.Email); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().
			Str("to", data.Email).
			Str("event", data.EventTitle).
			Msg("email service disabled, skipping confirmation email")
		return nil
	}

	data.CurrentYear = time.Now().Year()
	htmlBody, err := s.renderTemplate("confirmation.html", data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation template: %w", err)
	}

	subject := fmt.Sprintf("Registration Confirmed: %s", data.EventTitle)
	if err := s.deliver(ctx, data.Email, subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	s.logger.Info().
		Str("to", data.Email).
		Str("event", data.EventTitle).
		Msg("confirmation email sent")
	return nil
}

func (s *Service) deliver(ctx context.Context, to, subject, htmlBody string) error {
	if s.config.Provider == config.EmailProviderResend {
		return s.sendViaResend(ctx, to, subject, htmlBody)
	}
	return s.sendViaSMTP(to, subject, htmlBody)
}

// validateEmailAddress checks format and rejects header injection attempts.
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}

// sendViaSMTP sends an email over SMTP with STARTTLS.
func (s *Service) sendViaSMTP(to, subject, htmlBody string) error {
	from := s.config.From
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var msg bytes.Buffer
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = client.Close() }()

	tlsConfig := &tls.Config{
		ServerName: s.config.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP connection: %w", err)
	}
	return nil
}

func (s *Service) renderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
