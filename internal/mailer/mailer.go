package mailer

import (
	"log/slog"
	"net/smtp"

	"github.com/pkg/errors"
)

// Mailer sends plain-text mail. All callers treat failures as
// best-effort: errors are logged, never surfaced to the requester.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" || m.Port == "" || m.Username == "" || m.Password == "" {
		return errors.New("smtp not configured")
	}

	msg := "From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg))
	return errors.Wrap(err, "sending mail")
}

// LogMailer is used when SMTP is not configured; it records the message
// instead of delivering it.
type LogMailer struct {
	Log *slog.Logger
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.Log.Info("mail suppressed (smtp not configured)", "to", to, "subject", subject)
	return nil
}
