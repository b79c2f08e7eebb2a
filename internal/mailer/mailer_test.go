package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		From:    "Portfolio <noreply@example.org>",
		To:      "owner@example.org",
		Subject: "Portfolio Contact: Hi",
		HTML:    "<p>Hello<br>World</p>",
		ReplyTo: "visitor@example.com",
	}
}

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	raw  string
}

func captureSend(t *testing.T, s *SMTP) *sentMail {
	t.Helper()
	var captured sentMail
	s.sendFn = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		captured = sentMail{addr: addr, auth: a, from: from, to: to, raw: string(msg)}
		return nil
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return &captured
}

func TestSMTPFormatsMessage(t *testing.T) {
	s := NewSMTP("smtp.example.org", 2525, "user", "pass")
	captured := captureSend(t, s)

	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, "smtp.example.org:2525", captured.addr)
	assert.NotNil(t, captured.auth)
	assert.Equal(t, "noreply@example.org", captured.from)
	assert.Equal(t, []string{"owner@example.org"}, captured.to)

	cases := []struct {
		name string
		want string
	}{
		{"from header", "From: Portfolio <noreply@example.org>\r\n"},
		{"to header", "To: owner@example.org\r\n"},
		{"reply-to header", "Reply-To: visitor@example.com\r\n"},
		{"subject header", "Subject: Portfolio Contact: Hi\r\n"},
		{"date header", "Date: Fri, 02 Jan 2026 03:04:05 +0000\r\n"},
		{"message id", "Message-ID: <"},
		{"mime header", "MIME-Version: 1.0\r\n"},
		{"content type header", "Content-Type: text/html; charset=UTF-8\r\n"},
		{"body", "\r\n\r\n<p>Hello<br>World</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, captured.raw, tc.want)
		})
	}
}

func TestSMTPDefaultsToGmail(t *testing.T) {
	s := NewSMTP("", 0, "", "")
	assert.Equal(t, "smtp.gmail.com:587", s.addr())
}

func TestSMTPStripsHeaderInjection(t *testing.T) {
	s := NewSMTP("smtp.example.org", 587, "", "")
	captured := captureSend(t, s)

	msg := testMessage()
	msg.ReplyTo = "a@x.com\r\nBcc: victim@example.com"
	require.NoError(t, s.Send(context.Background(), msg))

	assert.NotContains(t, captured.raw, "\r\nBcc:")
	assert.Contains(t, captured.raw, "Reply-To: a@x.com Bcc: victim@example.com\r\n")
	assert.Nil(t, captured.auth, "no auth without a user")
}

func TestSMTPEncodesNonASCIISubject(t *testing.T) {
	s := NewSMTP("smtp.example.org", 587, "", "")
	captured := captureSend(t, s)

	msg := testMessage()
	msg.Subject = "Portfolio Contact: héllo"
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Contains(t, captured.raw, "Subject: =?utf-8?q?")
}

func TestSMTPWrapsSendFailure(t *testing.T) {
	s := NewSMTP("smtp.example.org", 587, "", "")
	s.sendFn = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("535 authentication failed")
	}

	err := s.Send(context.Background(), testMessage())

	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ProviderSMTP, de.Provider)
	assert.Contains(t, err.Error(), "535 authentication failed")
}

func TestSMTPCancelledContext(t *testing.T) {
	s := NewSMTP("smtp.example.org", 587, "", "")
	called := false
	s.sendFn = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, testMessage())
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

type sgPayload struct {
	From struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"from"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	ReplyTo struct {
		Email string `json:"email"`
	} `json:"reply_to"`
}

func TestSendGridSend(t *testing.T) {
	var got sgPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sg := NewSendGrid("sg-key", srv.URL)
	require.NoError(t, sg.Send(context.Background(), testMessage()))

	assert.Equal(t, "noreply@example.org", got.From.Email)
	assert.Equal(t, "Portfolio", got.From.Name)
	assert.Equal(t, "Portfolio Contact: Hi", got.Subject)
	require.Len(t, got.Personalizations, 1)
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "owner@example.org", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "visitor@example.com", got.ReplyTo.Email)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0].Type)
	assert.Equal(t, "<p>Hello<br>World</p>", got.Content[0].Value)
}

func TestSendGridErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad"}]}`))
	}))
	defer srv.Close()

	err := NewSendGrid("sg-key", srv.URL).Send(context.Background(), testMessage())

	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ProviderSendGrid, de.Provider)
	assert.True(t, strings.Contains(err.Error(), "unexpected status 400"), err.Error())
}

func TestSendGridPing(t *testing.T) {
	assert.Error(t, NewSendGrid("", "").Ping(context.Background()))
	assert.NoError(t, NewSendGrid("key", "").Ping(context.Background()))
}

func TestNewSelectsProvider(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := []struct {
		provider string
		want     any
	}{
		{"", &SMTP{}},
		{ProviderSMTP, &SMTP{}},
		{ProviderSendGrid, &SendGrid{}},
		{ProviderLog, &Log{}},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			tr, err := New(Config{Provider: tc.provider}, logger)
			require.NoError(t, err)
			assert.IsType(t, tc.want, tr)
		})
	}

	_, err := New(Config{Provider: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestLogTransportAlwaysSucceeds(t *testing.T) {
	var buf strings.Builder
	l := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, l.Send(context.Background(), testMessage()))
	assert.Contains(t, buf.String(), "html_bytes=")
	assert.NotContains(t, buf.String(), "Portfolio Contact: Hi", "subject is not logged")
	assert.NotContains(t, buf.String(), "Hello", "message body is not logged")
}
