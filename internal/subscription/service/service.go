// Package service orchestrates the subscription lifecycle: sign-up with a
// tokenized double-opt-in email, and confirmation by token redemption.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newsletter/internal/email"
	"newsletter/internal/platform/metrics"
	"newsletter/internal/subscription/models"
	"newsletter/internal/subscription/store"
	"newsletter/pkg/domain"
	dErrors "newsletter/pkg/domain-errors"
	"newsletter/pkg/platform/sentinel"
)

// tokenAttempts bounds token regeneration on collision. At 62^25 tokens a
// collision is negligible, so a single retry is already generous.
const tokenAttempts = 2

// Tx provides the atomic unit for subscriber+token writes. Implementations
// must guarantee that an error from fn aborts the unit, leaving no partial
// subscriber/token pair visible to readers.
type Tx interface {
	RunInTx(ctx context.Context, fn func(store store.TxStore) error) error
}

// Service implements both subscription workflows against a store, a
// transaction runner, and an email transport.
type Service struct {
	store   store.Store
	tx      Tx
	sender  email.Sender
	logger  *slog.Logger
	metrics *metrics.Metrics
	baseURL string
	subject string
}

// New creates a subscription Service. baseURL is the externally reachable
// origin embedded in confirmation links.
func New(st store.Store, tx Tx, sender email.Sender, logger *slog.Logger, m *metrics.Metrics, baseURL, subject string) *Service {
	return &Service{
		store:   st,
		tx:      tx,
		sender:  sender,
		logger:  logger,
		metrics: m,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		subject: subject,
	}
}

// SignUp validates the submitted identity data, atomically persists a pending
// subscriber together with a single-use confirmation token, and sends the
// confirmation email. A delivery failure after commit leaves the subscriber
// durably pending; the write is not rolled back.
func (s *Service) SignUp(ctx context.Context, rawName, rawEmail string) error {
	name, err := domain.ParseSubscriberName(rawName)
	if err != nil {
		return err
	}
	addr, err := domain.ParseSubscriberEmail(rawEmail)
	if err != nil {
		return err
	}
	sub := models.NewSubscriber{Email: addr, Name: name}

	var token string
	err = s.tx.RunInTx(ctx, func(txStore store.TxStore) error {
		id, err := txStore.InsertSubscriber(ctx, sub)
		if err != nil {
			return err
		}
		token, err = s.storeFreshToken(ctx, txStore, id)
		return err
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not persist subscription")
	}
	s.metrics.IncrementSubscribersCreated()

	if err := s.sendConfirmationEmail(ctx, addr, token); err != nil {
		s.metrics.IncrementEmailSendFailures()
		s.logger.ErrorContext(ctx, "confirmation email failed, subscriber remains pending",
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not send confirmation email")
	}
	return nil
}

// Confirm redeems a confirmation token. Unknown tokens are an authorization
// failure; redeeming the token of an already-confirmed subscriber succeeds.
func (s *Service) Confirm(ctx context.Context, token string) error {
	id, err := s.store.FindSubscriberIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeUnauthorized, "unknown confirmation token")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not look up token")
	}

	if err := s.store.ConfirmSubscriber(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not confirm subscriber")
	}
	s.metrics.IncrementSubscribersConfirmed()
	return nil
}

// storeFreshToken generates and stores a token, regenerating once if the
// store reports a collision. After the retry budget the collision is
// surfaced as the store being unavailable.
func (s *Service) storeFreshToken(ctx context.Context, txStore store.TxStore, id domain.SubscriberID) (string, error) {
	var lastErr error
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		token, err := domain.GenerateSubscriptionToken()
		if err != nil {
			return "", err
		}
		err = txStore.StoreToken(ctx, id, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("token collisions exhausted retries: %v: %w", lastErr, sentinel.ErrUnavailable)
}

// ConfirmationLink builds the URL a subscriber must visit to confirm.
func (s *Service) ConfirmationLink(token string) string {
	return fmt.Sprintf("%s/subscriptions/confirm/%s", s.baseURL, token)
}

func (s *Service) sendConfirmationEmail(ctx context.Context, to domain.SubscriberEmail, token string) error {
	link := s.ConfirmationLink(token)
	htmlBody := fmt.Sprintf(
		"Welcome to our newsletter!<br />Click <a href=%q>%s</a> to confirm your subscription.",
		link, link,
	)
	textBody := fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		link,
	)
	return s.sender.Send(ctx, to, s.subject, htmlBody, textBody)
}
