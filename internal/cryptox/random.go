// Package cryptox provides the random source used to mint opaque tokens.
package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// MinTokenBytes is the smallest accepted opaque token size (128 bits).
const MinTokenBytes = 16

// RandomSource yields cryptographically secure random bytes.
type RandomSource interface {
	io.Reader
}

// SystemRandom returns the operating system CSPRNG.
func SystemRandom() RandomSource {
	return rand.Reader
}

// NewOpaqueToken reads size bytes from src and renders them as unpadded
// base64url text, safe for cookies, headers and URLs.
func NewOpaqueToken(src RandomSource, size int) (string, error) {
	if size < MinTokenBytes {
		return "", fmt.Errorf("token size %d below minimum %d", size, MinTokenBytes)
	}
	if src == nil {
		return "", errors.New("nil random source")
	}

	b := make([]byte, size)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
