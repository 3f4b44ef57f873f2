package auth

import (
	"context"
	"net/http"
	"time"
)

// HTTPContext bundles the request/response pair a net/http transport needs
// to read and write cookies.
type HTTPContext struct {
	W http.ResponseWriter
	R *http.Request
}

// Default cookie names for the two token storages. Secure storages prepend
// the __Host- prefix.
const (
	SessionCookieName = "authkit.user_session"
	StateCookieName   = "authkit.oauth_state"
)

// CookieStorage implements SessionStorage[HTTPContext] on top of HTTP
// cookies: httpOnly, SameSite=Lax, path "/". Lax (not Strict) because the
// OAuth callback is a top-level cross-site navigation and the cookies must
// accompany it.
type CookieStorage struct {
	name   string
	maxAge time.Duration
	secure bool
}

// CookieOption configures CookieStorage.
type CookieOption func(*CookieStorage)

// WithCookieSecure toggles the Secure attribute. Disable only for plain-HTTP
// local development.
func WithCookieSecure(secure bool) CookieOption {
	return func(s *CookieStorage) {
		s.secure = secure
	}
}

// NewCookieStorage creates a cookie-backed token storage. maxAge bounds the
// cookie lifetime and should match the lifetime of the tokens stored in it.
func NewCookieStorage(name string, maxAge time.Duration, opts ...CookieOption) *CookieStorage {
	s := &CookieStorage{name: name, maxAge: maxAge, secure: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// hostPrefix origin-locks a cookie per the __Host- convention: it may only
// be set over HTTPS, with Path=/ and no Domain attribute. Applied whenever
// the Secure attribute is on.
const hostPrefix = "__Host-"

func (s *CookieStorage) cookieName() string {
	if s.secure {
		return hostPrefix + s.name
	}
	return s.name
}

// GetSession returns the cookie value, or "" when the cookie is absent.
func (s *CookieStorage) GetSession(_ context.Context, c HTTPContext) (string, error) {
	cookie, err := c.R.Cookie(s.cookieName())
	if err != nil {
		// http.ErrNoCookie is the only error Cookie returns.
		return "", nil
	}
	return cookie.Value, nil
}

// SaveSession writes the token as a cookie on the response.
func (s *CookieStorage) SaveSession(_ context.Context, c HTTPContext, token string) error {
	http.SetCookie(c.W, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// DeleteSession expires the cookie on the response.
func (s *CookieStorage) DeleteSession(_ context.Context, c HTTPContext) error {
	http.SetCookie(c.W, &http.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
