// Package mail renders notification templates and delivers them over SMTP
// using go-mail. Rendering and transport live together so a dispatch hands
// over only a template id, a recipient, and the render context.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/shopforge/notification-service/internal/domain"
	apperrors "github.com/shopforge/notification-service/pkg/errors"
)

// Sender delivers one rendered notification.
type Sender interface {
	Send(ctx context.Context, templateID, to string, data domain.RenderContext, attachments []domain.Attachment) error
}

// SMTPConfig holds the SMTP transport settings.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string
	FromEmail  string
}

// SMTPSender renders a template pair and sends the result through the
// configured SMTP server. A fresh client is created per send; SMTP sessions
// are short-lived and the server closes idle connections anyway.
type SMTPSender struct {
	config    SMTPConfig
	templates *TemplateStore
	logger    *slog.Logger
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(config SMTPConfig, templates *TemplateStore, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{config: config, templates: templates, logger: logger}
}

// Send renders the template identified by templateID with data and delivers
// the result to the single recipient.
func (s *SMTPSender) Send(ctx context.Context, templateID, to string, data domain.RenderContext, attachments []domain.Attachment) error {
	subject, body, err := s.templates.Render(templateID, data)
	if err != nil {
		return fmt.Errorf("render template %s: %w", templateID, err)
	}

	m := mail.NewMsg()
	if err := m.From(s.config.FromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, body)

	for _, att := range attachments {
		content, err := base64.StdEncoding.DecodeString(att.Content)
		if err != nil {
			return fmt.Errorf("decode attachment %s: %w", att.Name, err)
		}
		if err := m.AttachReader(att.Name, bytes.NewReader(content), mail.WithFileContentType(mail.ContentType(att.MimeType))); err != nil {
			return fmt.Errorf("attach %s: %w", att.Name, err)
		}
	}

	client, err := mail.NewClient(s.config.Host,
		mail.WithPort(s.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(s.config.Encryption)),
	)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return apperrors.DeliveryFailed(fmt.Sprintf("send mail via %s:%d: %v", s.config.Host, s.config.Port, err))
	}

	s.logger.InfoContext(ctx, "mail delivered",
		slog.String("template_id", templateID),
		slog.Int("attachments", len(attachments)),
	)
	return nil
}

func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
