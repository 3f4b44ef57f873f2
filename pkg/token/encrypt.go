package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// Claims carries the temporal claims embedded in every token.
type Claims struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining reports the lifetime left relative to now.
func (c Claims) Remaining(now time.Time) time.Duration {
	return c.ExpiresAt.Sub(now)
}

// envelope wraps the caller payload with issued-at and expiry timestamps.
type envelope[T any] struct {
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
	Data      T     `json:"data"`
}

// Encrypt serializes the payload, stamps it with issued-at and expiry, and
// seals it with AES-256-GCM under a key derived from secret. The result is an
// opaque base64url string safe for cookies and URLs.
func Encrypt[T any](payload T, secret string, maxAge time.Duration) (string, error) {
	key, err := encryptionKey(secret)
	if err != nil {
		return "", err
	}

	now := time.Now()
	plaintext, err := json.Marshal(envelope[T]{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(maxAge).Unix(),
		Data:      payload,
	})
	if err != nil {
		return "", errors.Join(ErrEncryptFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrEncryptFailed, err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Join(ErrEncryptFailed, err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncryptFailed, err)
	}

	// Nonce is prepended so the token is self-contained.
	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, nil)

	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}
