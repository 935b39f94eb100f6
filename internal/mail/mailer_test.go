package mail

import (
	"errors"
	"strings"
	"testing"

	"github.com/elevatehq/go-booking-bot/internal/config"
)

func TestNew_DisabledWhenIncomplete(t *testing.T) {
	m := New(config.EmailConfig{Host: "smtp.example.com"}) // no credentials
	if err := m.Send("x@example.com", "s", "b"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestNew_SMTPWhenComplete(t *testing.T) {
	m := New(config.EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "bot@example.com",
		Password: "secret",
	})
	if _, ok := m.(*smtpMailer); !ok {
		t.Fatalf("expected smtp mailer, got %T", m)
	}
}

func TestBuildMessage_HeadersAndBody(t *testing.T) {
	msg := string(buildMessage("bot@example.com", "user@example.com", "Your report", "مرحبا\nline two"))

	for _, want := range []string{
		"From: bot@example.com\r\n",
		"To: user@example.com\r\n",
		"Subject: Your report\r\n",
		`Content-Type: text/plain; charset="utf-8"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	if len(parts) != 2 || parts[1] != "مرحبا\nline two" {
		t.Fatalf("body not separated from headers: %q", msg)
	}
}
