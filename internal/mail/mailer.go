package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"

	"github.com/sherdwhite/book-trader/config"
)

// Mailer delivers one-time verification codes to users.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationCode emails a one-time code. Transient connection errors are
// retried once before giving up.
func (m *SMTPMailer) SendVerificationCode(to, code string) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromAddress)
	e.To = []string{to}
	e.Subject = "Your Book Trader verification code"
	e.Text = []byte(fmt.Sprintf(
		"Your verification code is %s. It expires in 10 minutes.", code))

	err := m.send(e)
	if err != nil && isTransient(err) {
		time.Sleep(2 * time.Second)
		err = m.send(e)
	}
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// send dispatches according to the port and TLS mode. Only known combinations
// are allowed so the client never silently downgrades.
func (m *SMTPMailer) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	tlsConfig := &tls.Config{
		ServerName: m.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	if m.cfg.UseTLS {
		switch m.cfg.Port {
		case 465:
			return e.SendWithTLS(addr, auth, tlsConfig)
		case 587:
			return e.SendWithStartTLS(addr, auth, tlsConfig)
		default:
			return fmt.Errorf("unsupported port/TLS combination: port %d with TLS", m.cfg.Port)
		}
	}
	if m.cfg.Port == 25 {
		return e.Send(addr, auth)
	}
	return fmt.Errorf("unsupported port/TLS combination: port %d without TLS", m.cfg.Port)
}

// isTransient reports whether the error looks like a temporary network
// failure worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "i/o timeout")
}
