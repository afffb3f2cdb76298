package notify

import (
	"context"
	"log/slog"
)

// LogSender only writes the email to the log. It never fails.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.log.InfoContext(ctx, "email notification (log mode)", "to", to, "subject", subject, "body_bytes", len(htmlBody))
	return nil
}
