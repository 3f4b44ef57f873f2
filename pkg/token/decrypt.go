package token

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// Decrypt opens a token produced by Encrypt and returns its payload.
// Malformed input, a wrong key, and an expired token all yield ErrDecryptFailed.
func Decrypt[T any](tok string, secret string) (T, error) {
	payload, _, err := DecryptWithClaims[T](tok, secret)
	return payload, err
}

// DecryptWithClaims is Decrypt plus the token's temporal claims, for callers
// that need the expiry (e.g. sliding session refresh).
func DecryptWithClaims[T any](tok string, secret string) (T, Claims, error) {
	var zero T

	key, err := encryptionKey(secret)
	if err != nil {
		return zero, Claims{}, err
	}

	ciphertext, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return zero, Claims{}, errors.Join(ErrDecryptFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return zero, Claims{}, errors.Join(ErrDecryptFailed, err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return zero, Claims{}, errors.Join(ErrDecryptFailed, err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return zero, Claims{}, ErrDecryptFailed
	}
	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, sealed, nil)
	if err != nil {
		return zero, Claims{}, errors.Join(ErrDecryptFailed, err)
	}

	var env envelope[T]
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return zero, Claims{}, errors.Join(ErrDecryptFailed, err)
	}

	// Expired tokens fail with the same error as tampered ones.
	if time.Now().Unix() > env.ExpiresAt {
		return zero, Claims{}, ErrDecryptFailed
	}

	claims := Claims{
		IssuedAt:  time.Unix(env.IssuedAt, 0),
		ExpiresAt: time.Unix(env.ExpiresAt, 0),
	}

	return env.Data, claims, nil
}
