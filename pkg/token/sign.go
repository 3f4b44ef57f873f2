package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JWS header constants per RFC 7515.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// signedEnvelope mirrors envelope with a unique token ID added.
type signedEnvelope[T any] struct {
	ID        string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Data      T      `json:"data"`
}

// Sign serializes the payload into a compact HS256 JWT with issued-at, expiry,
// and a unique token ID. The payload is readable by anyone holding the token;
// only its integrity is protected. Use Encrypt for confidential payloads.
func Sign[T any](payload T, secret string, expiresIn time.Duration) (string, error) {
	key, err := signingKey(secret)
	if err != nil {
		return "", err
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", errors.Join(ErrSignFailed, err)
	}

	now := time.Now()
	claimsJSON, err := json.Marshal(signedEnvelope[T]{
		ID:        uuid.NewString(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(expiresIn).Unix(),
		Data:      payload,
	})
	if err != nil {
		return "", errors.Join(ErrSignFailed, err)
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(claimsJSON)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signingInput))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return signingInput + "." + sig, nil
}
