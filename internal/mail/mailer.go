// Package mail delivers the operator notifications and user-facing report
// emails over SMTP.
//
// The Mailer interface keeps the pipeline testable; the SMTP implementation
// picks its transport by port: 465 opens an implicit-TLS connection, any
// other port dials plain and upgrades with STARTTLS when offered. When the
// SMTP config is incomplete the factory returns a disabled mailer that
// reports every send as failed without touching the network, so report
// pipelines stay honest about delivery.
package mail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/elevatehq/go-booking-bot/internal/config"
)

// ErrDisabled is returned by the no-op mailer used when SMTP is not
// configured.
var ErrDisabled = errors.New("mail: smtp not configured")

// Mailer sends one plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// New returns an SMTP mailer, or a disabled one when cfg is incomplete.
func New(cfg config.EmailConfig) Mailer {
	if !cfg.Enabled() {
		log.Warn().Msg("smtp not configured, outbound email disabled")
		return disabledMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type disabledMailer struct{}

func (disabledMailer) Send(to, subject, body string) error { return ErrDisabled }

type smtpMailer struct {
	cfg config.EmailConfig
}

// Send implements Mailer.
func (m *smtpMailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprintf("%d", m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	msg := buildMessage(m.cfg.User, to, subject, body)

	var err error
	if m.cfg.Port == 465 {
		err = m.sendImplicitTLS(addr, auth, to, msg)
	} else {
		err = smtp.SendMail(addr, auth, m.cfg.User, []string{to}, msg)
	}
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("smtp send failed")
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

// sendImplicitTLS handles SMTPS, where the TLS handshake precedes the SMTP
// banner and STARTTLS never happens.
func (m *smtpMailer) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(m.cfg.User); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage renders a UTF-8 plain-text RFC 5322 message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
