// Package email is the outbound mail boundary. The service layer depends on
// Sender only; SES is one implementation, LogSender serves local development.
package email

import (
	"context"

	"newsletter/pkg/domain"
)

// Sender delivers a single email with an HTML body and a plain-text body.
type Sender interface {
	Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error
}
