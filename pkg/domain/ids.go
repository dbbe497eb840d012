package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "newsletter/pkg/domain-errors"
)

// SubscriberID is a typed UUID so subscriber identifiers cannot be confused
// with other strings or IDs at compile time.
type SubscriberID uuid.UUID

// NewSubscriberID generates a fresh random subscriber ID.
func NewSubscriberID() SubscriberID {
	return SubscriberID(uuid.New())
}

// ParseSubscriberID validates raw at a trust boundary. It rejects empty input,
// malformed UUIDs, and the nil UUID.
func ParseSubscriberID(raw string) (SubscriberID, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberID{}, dErrors.New(dErrors.CodeBadRequest, "subscriber id must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return SubscriberID{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "subscriber id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return SubscriberID{}, dErrors.New(dErrors.CodeBadRequest, "subscriber id must not be the nil UUID")
	}
	return SubscriberID(parsed), nil
}

func (id SubscriberID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero UUID.
func (id SubscriberID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
