// Package store persists subscribers and their confirmation tokens.
//
// Error contract: implementations return sentinel.ErrConflict (wrapped) when a
// uniqueness constraint is violated, sentinel.ErrNotFound when a token does not
// exist, and sentinel.ErrUnavailable (wrapped) for connectivity failures.
package store

import (
	"context"

	"newsletter/internal/subscription/models"
	"newsletter/pkg/domain"
)

// TxStore is the write surface available inside one atomic unit. A subscriber
// and its token are written through the same TxStore so both become visible
// together or not at all.
type TxStore interface {
	// InsertSubscriber inserts a pending subscriber with a fresh ID and the
	// current timestamp, returning the generated ID.
	InsertSubscriber(ctx context.Context, sub models.NewSubscriber) (domain.SubscriberID, error)
	// StoreToken inserts the confirmation token referencing the subscriber.
	StoreToken(ctx context.Context, id domain.SubscriberID, token string) error
}

// Store is the surface available outside a transaction.
type Store interface {
	// FindSubscriberIDByToken resolves a token to its subscriber. Unknown
	// tokens yield sentinel.ErrNotFound; the store never distinguishes
	// "never existed" from "already used" because tokens are not deleted.
	FindSubscriberIDByToken(ctx context.Context, token string) (domain.SubscriberID, error)
	// ConfirmSubscriber sets the subscriber's status to confirmed. Confirming
	// an already-confirmed subscriber is a no-op success.
	ConfirmSubscriber(ctx context.Context, id domain.SubscriberID) error
}
