package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// tokenAlphabet is URL-safe without escaping; 62^25 possible tokens make
// collisions and guessing negligible.
const (
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength   = 25
)

// GenerateSubscriptionToken creates a cryptographically secure confirmation
// token: exactly 25 characters drawn uniformly from [A-Za-z0-9]. crypto/rand is
// the only randomness source; each character is sampled independently so no
// modulo bias is introduced.
func GenerateSubscriptionToken() (string, error) {
	alphabetSize := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, tokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("could not generate token: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
