package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SessionTokenBytes is the entropy of a session token (256 bits).
const SessionTokenBytes = 32

// NewOpaqueToken returns n random bytes encoded base64url without padding.
func NewOpaqueToken(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
