package domain

import (
	"strings"

	"github.com/rivo/uniseg"

	dErrors "newsletter/pkg/domain-errors"
)

// maxNameGraphemes bounds the display name. The limit is counted in grapheme
// clusters, not bytes or runes, so combining sequences and emoji count as one.
const maxNameGraphemes = 256

// forbiddenNameCharacters are rejected outright to keep names inert in HTML,
// headers, and shell-adjacent contexts.
const forbiddenNameCharacters = `/()"<>\{}`

// SubscriberName is a validated display name. Construction through ParseSubscriberName
// is the only validation point; the wrapped string is stored exactly as submitted,
// with no trimming or normalization.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw and wraps it. It fails on blank or
// whitespace-only input, on more than 256 grapheme clusters, and on any
// forbidden character.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, dErrors.New(dErrors.CodeBadRequest, "name must not be empty")
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, dErrors.New(dErrors.CodeBadRequest, "name must not exceed 256 characters")
	}
	if strings.ContainsAny(raw, forbiddenNameCharacters) {
		return SubscriberName{}, dErrors.New(dErrors.CodeBadRequest, "name contains a forbidden character")
	}
	return SubscriberName{value: raw}, nil
}

// String returns the original, unmodified name.
func (n SubscriberName) String() string {
	return n.value
}
