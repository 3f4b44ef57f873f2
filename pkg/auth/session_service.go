package auth

import (
	"time"

	"github.com/dmitrymomot/authkit/pkg/token"
)

// sessionService issues and reads encrypted session tokens. Sessions are
// entirely client-held; "revoking" one means deleting the token from the
// client, and expiry is enforced by the codec.
type sessionService struct {
	secret string
	maxAge time.Duration
}

// create encrypts session data into a fresh token with full lifetime.
func (s *sessionService) create(data map[string]any, providerID string) (string, error) {
	return token.Encrypt(SessionPayload{
		Provider: providerID,
		MaxAge:   int64(s.maxAge.Seconds()),
		Data:     data,
	}, s.secret, s.maxAge)
}

// read decrypts a session token. An empty token returns (nil, nil): absence
// of a session is an anonymous request, not a failure. A token that fails to
// decrypt (expired or tampered) is a typed error so the host can clear it.
func (s *sessionService) read(raw string) (*Session, error) {
	if raw == "" {
		return nil, nil
	}

	payload, claims, err := token.DecryptWithClaims[SessionPayload](raw, s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Provider:  payload.Provider,
		Data:      payload.Data,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
