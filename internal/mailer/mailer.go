// Package mailer sends transactional mail for order and account events.
package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"commerce-platform/config"
	"commerce-platform/internal/util"
)

// Mailer sends a single message.
type Mailer interface {
	Send(to, subject, body string) error
}

// New selects the SMTP mailer or the logging mock based on config.
func New(cfg config.MailConfig) Mailer {
	if cfg.Mock {
		return &MockMailer{logger: util.GetLogger()}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// MockMailer logs messages instead of sending them. Used in development
// and tests.
type MockMailer struct {
	logger *zap.Logger

	// Sent records delivered messages when non-nil.
	Sent []MockMessage
}

type MockMessage struct {
	To      string
	Subject string
	Body    string
}

func (m *MockMailer) Send(to, subject, body string) error {
	if m.logger != nil {
		m.logger.Info("mock mail",
			zap.String("to", to),
			zap.String("subject", subject))
	}
	m.Sent = append(m.Sent, MockMessage{To: to, Subject: subject, Body: body})
	return nil
}
