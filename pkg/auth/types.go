package auth

import "time"

// Provider type discriminators.
const (
	ProviderTypeOAuth      = "oauth"
	ProviderTypeCredential = "credential"
)

// Routes the host must mount for emailed links and OAuth callbacks to work.
// OAuth callbacks append the provider ID: /api/auth/callback/{provider}.
const (
	RouteVerifyEmail              = "/api/auth/verify-email"
	RouteVerifyPasswordResetToken = "/api/auth/verify-password-reset-token"
	RouteOAuthCallback            = "/api/auth/callback"
)

// StatePayload is the content of the encrypted OAuth state token, binding one
// authorization round-trip to one browser.
type StatePayload struct {
	State        string `json:"state"`
	CodeVerifier string `json:"code_verifier"`
	RedirectTo   string `json:"redirect_to"`
	Provider     string `json:"provider"`
}

// SessionPayload is the content of the encrypted user session token.
type SessionPayload struct {
	Provider string         `json:"provider"`
	MaxAge   int64          `json:"max_age"`
	Data     map[string]any `json:"data"`
}

// Session is the decrypted view of an authenticated user session.
type Session struct {
	Provider  string
	Data      map[string]any
	ExpiresAt time.Time
}

// emailVerificationPayload is carried by the signed email-verification token.
// The password hash travels inside the token so no account row exists until
// the email is proven.
type emailVerificationPayload struct {
	Email          string         `json:"email"`
	HashedPassword string         `json:"hashed_password"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// resetPayload is carried by the signed password-reset token. PasswordHash is
// the account's hash at issue time; a mismatch at redemption means the token
// was already consumed.
type resetPayload struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// SignInResult is returned by OAuth initiation: the URL to send the browser
// to and the encrypted state token the host must persist for the callback.
type SignInResult struct {
	AuthorizationURL string
	StateToken       string
}

// RedirectResult is returned by flows that end in a browser redirect.
type RedirectResult struct {
	RedirectTo string
}

// ResetTokenVerification is returned by password-reset-token verification.
// On failure Email and PasswordHash are empty and RedirectTo carries an
// error code.
type ResetTokenVerification struct {
	Email        string
	PasswordHash string
	RedirectTo   string
}
