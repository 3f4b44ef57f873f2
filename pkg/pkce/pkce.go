package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

const entropyBytes = 32

// ErrRandomSource is returned when the system randomness source fails.
var ErrRandomSource = errors.New("pkce: failed to read random bytes")

// GenerateState returns a random URL-safe CSRF state value.
func GenerateState() (string, error) {
	return randomString()
}

// GenerateCodeVerifier returns a random URL-safe PKCE code verifier.
func GenerateCodeVerifier() (string, error) {
	return randomString()
}

// CodeChallenge derives the S256 code challenge from a verifier.
// It is deterministic: the same verifier always yields the same challenge.
func CodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomString() (string, error) {
	b := make([]byte, entropyBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", errors.Join(ErrRandomSource, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
