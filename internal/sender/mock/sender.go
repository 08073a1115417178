package mock

import (
	"context"
	"log/slog"

	"github.com/utafrali/patatpalace/internal/domain"
)

// LogSender pretends to deliver contact messages by logging them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Name returns the name of this sender.
func (s *LogSender) Name() string {
	return "mock-log"
}

// Send logs the message metadata. The message body is not logged.
func (s *LogSender) Send(ctx context.Context, msg domain.ContactMessage) error {
	s.logger.InfoContext(ctx, "mock sender: contact message sent",
		slog.String("from_name", msg.Name),
		slog.String("from_email", msg.Email),
		slog.Int("message_length", len(msg.Message)),
	)
	return nil
}
