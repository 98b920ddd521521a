// Package mail delivers one-time codes to users. SMTP delivery goes through
// go-mail; the log mailer is for local development where no relay exists.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a one-time verification code to an address.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// SMTPConfig carries relay settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends codes through an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject("Your verification code")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in a few minutes. If you did not request it, ignore this email.\n", code))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// LogMailer writes the code to the log instead of sending it. Dev only.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendOTP(ctx context.Context, to, code string) error {
	m.Logger.Info("otp issued (log mailer, not delivered)", "to", to, "code", code)
	return nil
}
