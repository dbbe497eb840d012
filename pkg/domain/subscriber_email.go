package domain

import (
	"regexp"

	dErrors "newsletter/pkg/domain-errors"
)

// emailPattern requires a local part, an @, and a domain with at least one dot.
// Deliberately stricter than RFC 5322: bare-host addresses like user@localhost
// are not deliverable destinations for this service.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SubscriberEmail is a validated email address. Construction through
// ParseSubscriberEmail is the only validation point; the value is immutable.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw against the email grammar and wraps it.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if !emailPattern.MatchString(raw) {
		return SubscriberEmail{}, dErrors.New(dErrors.CodeBadRequest, "email is not a valid address")
	}
	return SubscriberEmail{value: raw}, nil
}

// String returns the address as submitted.
func (e SubscriberEmail) String() string {
	return e.value
}
