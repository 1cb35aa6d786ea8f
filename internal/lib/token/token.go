package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Length of the random payload in bytes before encoding.
const payloadLen = 32

// New generates a cryptographically random, URL-safe opaque value. Uniqueness
// is the store's concern: callers re-roll on a unique-constraint collision.
func New() (string, error) {
	const op = "lib.token.New"

	buf := make([]byte, payloadLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
