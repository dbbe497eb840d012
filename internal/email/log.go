package email

import (
	"context"
	"log/slog"

	"newsletter/pkg/domain"
)

// LogSender logs outbound mail instead of delivering it. Used when no SES
// credentials are configured so local sign-ups still surface their link.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	s.logger.InfoContext(ctx, "email delivery skipped (no transport configured)",
		"to", to.String(),
		"subject", subject,
		"text_body", textBody,
	)
	return nil
}
