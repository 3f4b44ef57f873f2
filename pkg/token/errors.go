package token

import "errors"

var (
	// ErrInvalidSecret is returned when the secret does not decode to a 32-byte key.
	ErrInvalidSecret = errors.New("token: secret must be a base64-encoded 32-byte key")

	// ErrEncryptFailed is returned when payload serialization or sealing fails.
	ErrEncryptFailed = errors.New("token: encryption failed")

	// ErrDecryptFailed covers malformed input, wrong key, and expired tokens.
	// The cases are deliberately not distinguishable to callers.
	ErrDecryptFailed = errors.New("token: decryption failed")

	// ErrSignFailed is returned when payload serialization or signing fails.
	ErrSignFailed = errors.New("token: signing failed")

	// ErrVerifyFailed covers malformed input, signature mismatch, and expired tokens.
	ErrVerifyFailed = errors.New("token: verification failed")
)
