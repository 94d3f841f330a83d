package email

import (
	"context"
	"crypto/tls"
	"strings"

	mail "github.com/go-mail/mail/v2"

	"hrperf/internal/domain/notifications"
	"hrperf/internal/platform/config"
)

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error {
	return nil
}

type smtpMailer struct {
	dialer *mail.Dialer
}

// New returns an SMTP mailer, or a mailer that drops messages when email is disabled.
func New(cfg config.Config) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopMailer{}
	}
	dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if cfg.SMTPUseTLS {
		dialer.StartTLSPolicy = mail.MandatoryStartTLS
		dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}
	} else {
		dialer.StartTLSPolicy = mail.NoStartTLS
	}
	return &smtpMailer{dialer: dialer}
}

func (s *smtpMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(buildMessage(from, to, subject, body))
}

func buildMessage(from, to, subject, body string) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
