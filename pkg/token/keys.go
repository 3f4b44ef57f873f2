package token

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the required size of the decoded secret.
const KeySize = 32

// HKDF info strings provide domain separation between the two token families.
const (
	encryptKeyInfo = "authkit-token-encrypt-v1"
	signKeyInfo    = "authkit-token-sign-v1"
)

// decodeSecret decodes the base64 secret and validates its length.
func decodeSecret(secret string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	if len(raw) != KeySize {
		return nil, ErrInvalidSecret
	}
	return raw, nil
}

// deriveKey derives a purpose-bound 32-byte key from the raw secret using HKDF-SHA256.
func deriveKey(raw []byte, info string) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, raw, nil, []byte(info)), key); err != nil {
		return nil, err
	}
	return key, nil
}

// encryptionKey returns the AES key derived from the secret.
func encryptionKey(secret string) ([]byte, error) {
	raw, err := decodeSecret(secret)
	if err != nil {
		return nil, err
	}
	return deriveKey(raw, encryptKeyInfo)
}

// signingKey returns the HMAC key derived from the secret.
func signingKey(secret string) ([]byte, error) {
	raw, err := decodeSecret(secret)
	if err != nil {
		return nil, err
	}
	return deriveKey(raw, signKeyInfo)
}
