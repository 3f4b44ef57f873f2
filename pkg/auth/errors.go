package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/authkit/pkg/token"
)

var (
	// ErrProviderNotFound is returned when no registered provider matches the
	// requested provider ID.
	ErrProviderNotFound = errors.New("auth: provider not found")

	// ErrUnsupportedProviderType is returned when a provider is registered (or
	// requested) for an operation its type does not support.
	ErrUnsupportedProviderType = errors.New("auth: unsupported provider type")

	// ErrStateNotFound is returned when an OAuth callback arrives without a
	// stored state token.
	ErrStateNotFound = errors.New("auth: oauth state not found")

	// ErrStateMismatch is returned when the state echoed by the identity
	// provider does not match the one bound to this browser.
	ErrStateMismatch = errors.New("auth: oauth state mismatch")

	// ErrAuthorizationCodeNotFound is returned when the OAuth callback is
	// missing the authorization code.
	ErrAuthorizationCodeNotFound = errors.New("auth: authorization code not found")

	// ErrAccountNotFound is returned when a credential flow references an
	// email with no account.
	ErrAccountNotFound = errors.New("auth: account not found")

	// ErrAccountAlreadyExists is returned on sign-up when the email is taken.
	ErrAccountAlreadyExists = errors.New("auth: account already exists")

	// ErrInvalidCredentials is returned when the supplied password does not
	// match the account's hash.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrTokenAlreadyUsed is returned when a password-reset token no longer
	// matches the account's current password hash, meaning the password
	// changed after the token was issued.
	ErrTokenAlreadyUsed = errors.New("auth: token already used")

	// ErrCallbackFailed wraps an error raised by a host-supplied callback.
	ErrCallbackFailed = errors.New("auth: callback failed")

	// ErrUnknown wraps unexpected internal failures.
	ErrUnknown = errors.New("auth: unknown error")
)

// callbackError tags a host callback failure with the callback's name so logs
// point at the integration point that broke.
func callbackError(name string, err error) error {
	return fmt.Errorf("%w %q: %w", ErrCallbackFailed, name, err)
}

// domainErrors are returned as-is from operations; anything else is wrapped
// as ErrUnknown so callers can rely on a closed error set.
var domainErrors = []error{
	ErrProviderNotFound,
	ErrUnsupportedProviderType,
	ErrStateNotFound,
	ErrStateMismatch,
	ErrAuthorizationCodeNotFound,
	ErrAccountNotFound,
	ErrAccountAlreadyExists,
	ErrInvalidCredentials,
	ErrTokenAlreadyUsed,
	ErrCallbackFailed,
	token.ErrEncryptFailed,
	token.ErrDecryptFailed,
	token.ErrSignFailed,
	token.ErrVerifyFailed,
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrUnknown, op, err)
}

// errorCode maps an error to the short code embedded in error redirects.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrTokenAlreadyUsed):
		return "token_already_used"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrAccountAlreadyExists):
		return "account_already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrStateNotFound):
		return "state_not_found"
	case errors.Is(err, ErrStateMismatch):
		return "state_mismatch"
	case errors.Is(err, ErrAuthorizationCodeNotFound):
		return "authorization_code_not_found"
	case errors.Is(err, ErrProviderNotFound):
		return "provider_not_found"
	case errors.Is(err, ErrUnsupportedProviderType):
		return "unsupported_provider_type"
	case errors.Is(err, ErrCallbackFailed):
		return "callback_failed"
	case errors.Is(err, token.ErrVerifyFailed):
		return "token_verification_failed"
	case errors.Is(err, token.ErrDecryptFailed):
		return "token_decrypt_failed"
	default:
		return "unknown"
	}
}
