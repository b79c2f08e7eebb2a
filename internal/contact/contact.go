package contact

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/portfolio/internal/mailer"
)

//go:embed templates/email.html.tmpl
var templateFS embed.FS

var emailTmpl = template.Must(template.ParseFS(templateFS, "templates/email.html.tmpl"))

// SubjectPrefix is prepended to every forwarded subject line.
const SubjectPrefix = "Portfolio Contact: "

// ErrValidation matches every validation failure with errors.Is.
var ErrValidation = errors.New("contact: validation failed")

// Submission is a contact form submission. It lives for a single request.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// MissingFieldError lists the required fields that were absent or empty.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "contact: missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks that all four fields are present. Address syntax is not
// checked.
func (s Submission) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"subject", s.Subject},
		{"message", s.Message},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

type emailData struct {
	Name    string
	Email   string
	Subject string
	Message template.HTML
}

// BuildMessage renders the outbound email for sub. Reply-To is always the
// submitter.
func BuildMessage(sub Submission, from, to string) (mailer.Message, error) {
	data := emailData{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: messageHTML(sub.Message),
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return mailer.Message{}, fmt.Errorf("contact: render email: %w", err)
	}

	return mailer.Message{
		From:    from,
		To:      to,
		Subject: SubjectPrefix + sub.Subject,
		HTML:    buf.String(),
		ReplyTo: sub.Email,
	}, nil
}

// messageHTML escapes the message and turns its line breaks into <br>.
func messageHTML(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// Service forwards submissions to a fixed recipient.
type Service struct {
	transport mailer.Transport
	from      string
	to        string
}

func NewService(transport mailer.Transport, from, to string) *Service {
	return &Service{transport: transport, from: from, to: to}
}

// Submit validates sub and dispatches it exactly once. Transport failures are
// returned as *mailer.DeliveryError and are never retried.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	msg, err := BuildMessage(sub, s.from, s.to)
	if err != nil {
		return err
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		var de *mailer.DeliveryError
		if errors.As(err, &de) {
			return err
		}
		return &mailer.DeliveryError{Provider: "transport", Err: err}
	}
	return nil
}
