package auth

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

// DevConsoleMailer logs codes instead of sending mail. Used when SMTP is not
// configured.
type DevConsoleMailer struct {
	enabled bool
}

func NewDevConsoleMailer(enabled bool) *DevConsoleMailer {
	return &DevConsoleMailer{enabled: enabled}
}

func (m *DevConsoleMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] confirmation code email=%s code=%s", email, code)
	}
	return nil
}

// SMTPMailer delivers confirmation codes over plain SMTP with STARTTLS.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

func (m *SMTPMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirm your email\r\n\r\nYour confirmation code is: %s\r\n",
		m.username, email, code,
	)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port
	return smtp.SendMail(addr, auth, m.username, []string{email}, []byte(msg))
}
