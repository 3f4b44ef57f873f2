package auth

import "context"

// SessionStorage moves opaque tokens between the service and the client over
// the host's transport. C is whatever the transport needs per request; for
// net/http it is HTTPContext. GetSession returns "" when no token is present,
// which the service treats as an anonymous request, not an error.
type SessionStorage[C any] interface {
	GetSession(ctx context.Context, c C) (string, error)
	SaveSession(ctx context.Context, c C, token string) error
	DeleteSession(ctx context.Context, c C) error
}
