package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMTP sends mail through an authenticated SMTP submission server.
type SMTP struct {
	host string
	port int
	user string
	pass string

	// sendFn is smtp.SendMail outside of tests.
	sendFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now    func() time.Time
}

// NewSMTP returns an SMTP transport. Gmail submission is used when host or
// port are unset.
func NewSMTP(host string, port int, user, pass string) *SMTP {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == 0 {
		port = 587
	}
	return &SMTP{
		host:   host,
		port:   port,
		user:   user,
		pass:   pass,
		sendFn: smtp.SendMail,
		now:    time.Now,
	}
}

func (s *SMTP) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked
// before the submission starts.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Provider: ProviderSMTP, Err: err}
	}

	envelopeFrom, err := mail.ParseAddress(msg.From)
	if err != nil {
		return &DeliveryError{Provider: ProviderSMTP, Err: fmt.Errorf("parse from address: %w", err)}
	}

	raw, err := s.formatMessage(msg)
	if err != nil {
		return &DeliveryError{Provider: ProviderSMTP, Err: err}
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := s.sendFn(s.addr(), auth, envelopeFrom.Address, []string{msg.To}, raw); err != nil {
		return &DeliveryError{Provider: ProviderSMTP, Err: err}
	}
	return nil
}

// Ping dials the server and waits for its greeting.
func (s *SMTP) Ping(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr())
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", s.addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp: greeting: %w", err)
	}
	return c.Quit()
}

// formatMessage renders msg as an RFC 5322 message with a quoted-printable
// HTML body.
func (s *SMTP) formatMessage(msg Message) ([]byte, error) {
	var buf bytes.Buffer

	header := func(k, v string) {
		buf.WriteString(k + ": " + headerValue(v) + "\r\n")
	}

	header("From", msg.From)
	header("To", msg.To)
	if msg.ReplyTo != "" {
		header("Reply-To", msg.ReplyTo)
	}
	buf.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerValue(msg.Subject)) + "\r\n")
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+s.host+">")
	header("MIME-Version", "1.0")
	header("Content-Type", "text/html; charset=UTF-8")
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	return buf.Bytes(), nil
}

// headerValue strips line breaks so user-supplied values cannot inject headers.
func headerValue(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
