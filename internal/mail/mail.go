// Package mail delivers transactional email over SMTP. Delivery is
// fire-and-forget: a failure is logged, never surfaced to the caller,
// so mail outcomes cannot leak whether an account exists.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/JonMunkholm/clubhouse/internal/config"
)

// Sender sends one raw message; swapped out in tests.
type Sender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends club emails through a configured SMTP relay. A disabled
// mailer drops everything silently.
type Mailer struct {
	cfg  config.MailConfig
	log  *slog.Logger
	send Sender
}

func New(cfg config.MailConfig, log *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

// SendPasswordReset mails the reset link for a token. It returns
// immediately; delivery happens in the background.
func (m *Mailer) SendPasswordReset(username, email, token string) {
	if !m.cfg.Enabled {
		m.log.Debug("mail disabled, dropping password reset", "to", email)
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(m.cfg.BaseURL, "/"), token)
	subject := "Password Reset Request"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"You have requested a password reset for your club account.\r\n\r\n"+
			"Click the following link to reset your password:\r\n%s\r\n\r\n"+
			"This link will expire in 1 hour.\r\n\r\n"+
			"If you did not request this password reset, please ignore this email.\r\n",
		username, resetURL)

	go m.deliver(email, subject, body)
}

func (m *Mailer) deliver(to, subject, body string) {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, body))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, a, m.cfg.From, []string{to}, msg); err != nil {
		m.log.Error("send mail failed", "to", to, "error", err)
		return
	}
	m.log.Info("mail sent", "to", to)
}
