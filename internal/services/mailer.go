package services

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPMailer sends HTML mail through an authenticated SMTP relay. Bodies
// pass through a UGC policy first since they embed configured URLs.
type SMTPMailer struct {
	cfg    SMTPConfig
	policy *bluemonday.Policy
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when no
// relay is configured.
func NewMailer(cfg SMTPConfig, log *zap.Logger) Mailer {
	if cfg.Host == "" {
		return LogMailer{log: log}
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg, policy: bluemonday.UGCPolicy()}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := m.message(to, subject, htmlBody)

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(to, subject, htmlBody string) []byte {
	return []byte(strings.Join([]string{
		"From: Infinity Support <" + m.cfg.From + ">",
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		m.policy.Sanitize(htmlBody),
	}, "\r\n"))
}

// LogMailer records outgoing mail instead of sending it.
type LogMailer struct {
	log *zap.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, _ string) error {
	if m.log != nil {
		m.log.Info("mail not sent, no SMTP relay configured",
			zap.String("to", to), zap.String("subject", subject))
	}
	return nil
}
