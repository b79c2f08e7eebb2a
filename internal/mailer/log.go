package mailer

import (
	"context"
	"log/slog"
)

// Log is a development transport that records that a message was accepted
// instead of sending it. Only sizes are logged.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	l.logger.InfoContext(ctx, "mailer: message not sent (log provider)",
		"to", msg.To,
		"subject_bytes", len(msg.Subject),
		"html_bytes", len(msg.HTML),
	)
	return nil
}

func (l *Log) Ping(context.Context) error { return nil }
