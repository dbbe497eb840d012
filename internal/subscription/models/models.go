// Package models holds the subscription entities shared by the store, service,
// and handler layers.
package models

import (
	"time"

	"newsletter/pkg/domain"
)

// Status is the subscriber lifecycle state. The transition is monotone:
// pending subscribers become confirmed exactly once and never move back.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// NewSubscriber is a validated, not-yet-persisted sign-up request. It only
// exists for the duration of the sign-up workflow call.
type NewSubscriber struct {
	Email domain.SubscriberEmail
	Name  domain.SubscriberName
}

// Subscriber is the persisted entity. ID and SubscribedAt are set at insert
// time and never change; Status is the only mutable attribute.
type Subscriber struct {
	ID           domain.SubscriberID
	Email        string
	Name         string
	SubscribedAt time.Time
	Status       Status
}

// SubscriptionToken correlates a confirmation link with a subscriber. It is a
// lookup artifact, not part of the subscriber's lifecycle: tokens are never
// deleted, and redeeming one twice is a no-op success.
type SubscriptionToken struct {
	Token        string
	SubscriberID domain.SubscriberID
}
