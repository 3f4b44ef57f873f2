package auth

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config holds the knobs shared by every flow. Durations follow Go duration
// syntax in the environment ("1h", "10m").
type Config struct {
	// BaseURL is the public origin of the host application, used to build
	// OAuth redirect URIs and emailed action links.
	BaseURL string `env:"AUTH_BASE_URL,required"`

	// SessionSecret keys both token families. Base64 (standard encoding) of
	// 32 random bytes.
	SessionSecret string `env:"AUTH_SESSION_SECRET,required"`

	// SessionMaxAge is the lifetime of a freshly issued session token.
	SessionMaxAge time.Duration `env:"AUTH_SESSION_MAX_AGE" envDefault:"1h"`

	// StateMaxAge bounds how long an OAuth round-trip may take.
	StateMaxAge time.Duration `env:"AUTH_STATE_MAX_AGE" envDefault:"10m"`

	// VerificationTokenTTL is the lifetime of emailed verification links.
	VerificationTokenTTL time.Duration `env:"AUTH_VERIFICATION_TOKEN_TTL" envDefault:"30m"`

	// ResetTokenTTL is the lifetime of emailed password-reset links.
	ResetTokenTTL time.Duration `env:"AUTH_RESET_TOKEN_TTL" envDefault:"30m"`
}

// Validate checks the configuration before the service starts.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("auth: base URL must be an absolute URL")
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		return errors.New("auth: session secret is required")
	}
	if c.SessionMaxAge <= 0 || c.StateMaxAge <= 0 || c.VerificationTokenTTL <= 0 || c.ResetTokenTTL <= 0 {
		return errors.New("auth: token lifetimes must be positive")
	}
	return nil
}
