package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/portfoliokit/portfolio/internal/config"
	"github.com/portfoliokit/portfolio/pkg/logger"
)

// Mailer relays notification emails for new contact messages. Handlers treat
// delivery as best-effort; a failed relay never fails the request.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// SMTPMailer implements Mailer over an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	to     string
}

// NewSMTPMailer builds a mailer from config. Returns (nil, nil) when no SMTP
// host is configured so wiring can fall back to the noop mailer.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, nil
	}
	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{client: client, from: from, to: cfg.To}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Noop is used when SMTP is not configured; sends are logged and dropped.
type Noop struct{}

func (Noop) Send(ctx context.Context, subject, body string) error {
	logger.Warnf("SMTP not configured; skipping email %q", subject)
	return nil
}
