package notify

import (
	"fmt"
	"net/smtp"

	"urbaniq/backend/internal/config"
)

// Mailer delivers a composed message to one recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer speaks plain SMTP with optional AUTH.
type SMTPMailer struct {
	cfg config.NotifyConfig
}

func NewSMTPMailer(cfg config.NotifyConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.FromEmail, to, subject, body))

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
