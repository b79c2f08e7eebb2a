package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid sends mail through the SendGrid v3 API.
type SendGrid struct {
	apiKey string
	host   string
}

// NewSendGrid returns a SendGrid transport. host overrides the API base URL
// and is empty in production.
func NewSendGrid(apiKey, host string) *SendGrid {
	return &SendGrid{apiKey: apiKey, host: host}
}

// client builds a fresh client per send; the SDK client stores the request
// body on itself and is not safe for concurrent sends.
func (s *SendGrid) client() *sendgrid.Client {
	c := sendgrid.NewSendClient(s.apiKey)
	if s.host != "" {
		c.BaseURL = s.host + "/v3/mail/send"
	}
	return c
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	from, err := toSGEmail(msg.From)
	if err != nil {
		return &DeliveryError{Provider: ProviderSendGrid, Err: fmt.Errorf("parse from address: %w", err)}
	}

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(from)
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	resp, err := s.client().SendWithContext(ctx, m)
	if err != nil {
		return &DeliveryError{Provider: ProviderSendGrid, Err: err}
	}
	if resp.StatusCode >= 300 {
		return &DeliveryError{
			Provider: ProviderSendGrid,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Body),
		}
	}
	return nil
}

// Ping only checks configuration; SendGrid has no cheap unauthenticated probe.
func (s *SendGrid) Ping(ctx context.Context) error {
	if s.apiKey == "" {
		return errors.New("sendgrid: api key not configured")
	}
	return nil
}

func toSGEmail(addr string) (*sgmail.Email, error) {
	a, err := mail.ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	return sgmail.NewEmail(a.Name, a.Address), nil
}
