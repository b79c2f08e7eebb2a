package mailer

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// Transport delivers a Message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Ping(ctx context.Context) error
}

// DeliveryError reports that a transport failed to deliver a message.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mailer: %s delivery failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderLog      = "log"
)

// Config selects and configures a Transport.
type Config struct {
	Provider string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	SendGridAPIKey string
	SendGridHost   string
}

// New returns the Transport named by cfg.Provider.
func New(cfg Config, logger *slog.Logger) (Transport, error) {
	switch cfg.Provider {
	case ProviderSMTP, "":
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass), nil
	case ProviderSendGrid:
		return NewSendGrid(cfg.SendGridAPIKey, cfg.SendGridHost), nil
	case ProviderLog:
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
}
