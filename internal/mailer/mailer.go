// Package mailer sends operational notification email over SMTP.
package mailer

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	gomail "gopkg.in/gomail.v2"
)

// Config carries the SMTP connection settings. A blank username disables
// sending; calls become logged no-ops so unconfigured environments stay
// quiet.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers messages through a single SMTP account.
type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *slog.Logger
}

// New constructs a mailer from the SMTP settings.
func New(cfg Config, logger *slog.Logger) *Mailer {
	m := &Mailer{cfg: cfg, logger: logger}
	if cfg.Username != "" && cfg.Password != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether the mailer has credentials to send with.
func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

// Send delivers a message with a plain text body and an optional HTML
// alternative.
func (m *Mailer) Send(to []string, subject, textBody, htmlBody string) error {
	if !m.Enabled() {
		if m != nil && m.logger != nil {
			m.logger.Warn("mailer not configured, skipping send", slog.String("subject", subject))
		}
		return nil
	}
	if len(to) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := gomail.NewMessage()
	if id, err := uuid.NewRandom(); err == nil {
		msg.SetHeader("Message-Id", fmt.Sprintf("<%s@%s>", id, m.cfg.Host))
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send %q: %w", subject, err)
	}
	m.logger.Info("mail sent", slog.String("subject", subject), slog.Int("recipients", len(to)))
	return nil
}
