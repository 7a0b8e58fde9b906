package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/pugly/api/internal/config"
	"github.com/pugly/api/internal/domain"
)

// Mailer delivers messages over SMTP. It satisfies the delivery capability
// the OTP workflow depends on.
type Mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// Deliver sends an email to the destination address. Failures are wrapped
// as domain.ErrDeliveryFailed; the caller decides whether to retry.
// net/smtp has no context support, so ctx is unused here.
func (m *Mailer) Deliver(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, domain.ErrDeliveryFailed)
	}
	return nil
}
