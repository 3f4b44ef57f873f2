package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Verify validates a token produced by Sign and returns its payload.
// Malformed input, a bad signature, an unexpected algorithm, and an expired
// token all yield ErrVerifyFailed.
func Verify[T any](tok string, secret string) (T, error) {
	var zero T

	key, err := signingKey(secret)
	if err != nil {
		return zero, err
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return zero, ErrVerifyFailed
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signingInput))
	expectedSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expectedSig)) != 1 {
		return zero, ErrVerifyFailed
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return zero, errors.Join(ErrVerifyFailed, err)
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return zero, errors.Join(ErrVerifyFailed, err)
	}
	// Reject unexpected algorithms to prevent confusion attacks.
	if h.Algorithm != headerAlgorithm {
		return zero, ErrVerifyFailed
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return zero, errors.Join(ErrVerifyFailed, err)
	}
	var env signedEnvelope[T]
	if err := json.Unmarshal(claimsJSON, &env); err != nil {
		return zero, errors.Join(ErrVerifyFailed, err)
	}

	if time.Now().Unix() > env.ExpiresAt {
		return zero, ErrVerifyFailed
	}

	return env.Data, nil
}
