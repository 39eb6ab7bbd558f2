package mail

import (
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/clubhouse/internal/config"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

type captureSender struct {
	mu   sync.Mutex
	sent []capturedMail
	done chan struct{}
}

func newCaptureSender() *captureSender {
	return &captureSender{done: make(chan struct{}, 8)}
}

func (c *captureSender) send(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
	c.mu.Lock()
	c.sent = append(c.sent, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
	c.mu.Unlock()
	c.done <- struct{}{}
	return nil
}

func (c *captureSender) wait(t *testing.T) capturedMail {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mail delivery")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

func testMailer(cfg config.MailConfig, sender Sender) *Mailer {
	return &Mailer{cfg: cfg, log: slog.Default(), send: sender}
}

// ---- SendPasswordReset ----

func TestSendPasswordReset(t *testing.T) {
	cs := newCaptureSender()
	m := testMailer(config.MailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@club.org",
		BaseURL: "https://club.example.com/",
	}, cs.send)

	m.SendPasswordReset("coach", "coach@club.org", "tok-123")
	got := cs.wait(t)

	if got.addr != "smtp.example.com:587" {
		t.Errorf("addr = %q", got.addr)
	}
	if got.from != "noreply@club.org" {
		t.Errorf("from = %q", got.from)
	}
	if len(got.to) != 1 || got.to[0] != "coach@club.org" {
		t.Errorf("to = %v", got.to)
	}
	if !strings.Contains(got.msg, "https://club.example.com/reset-password/tok-123") {
		t.Errorf("message missing reset link:\n%s", got.msg)
	}
	if !strings.Contains(got.msg, "Hi coach,") {
		t.Errorf("message missing greeting:\n%s", got.msg)
	}
	if !strings.Contains(got.msg, "Subject: Password Reset Request") {
		t.Errorf("message missing subject:\n%s", got.msg)
	}
}

func TestSendPasswordReset_Disabled(t *testing.T) {
	cs := newCaptureSender()
	m := testMailer(config.MailConfig{Enabled: false}, cs.send)

	m.SendPasswordReset("coach", "coach@club.org", "tok-123")

	select {
	case <-cs.done:
		t.Fatal("disabled mailer should not deliver")
	case <-time.After(50 * time.Millisecond):
	}
}
