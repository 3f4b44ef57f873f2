package auth

import (
	"context"
	"net/http"
)

// Provider is the common surface of every registered identity provider.
type Provider interface {
	// ID is the stable identifier used in routes and session payloads,
	// e.g. "google" or "credential".
	ID() string

	// Type is ProviderTypeOAuth or ProviderTypeCredential.
	Type() string
}

// AuthorizationURLParams carries everything an OAuth provider needs to build
// its authorization redirect.
type AuthorizationURLParams struct {
	State         string
	CodeChallenge string
	BaseURL       string
}

// OAuthProvider is implemented by federated identity providers.
type OAuthProvider interface {
	Provider

	// AuthorizationURL builds the provider's authorization endpoint URL with
	// state and PKCE challenge bound in.
	AuthorizationURL(params AuthorizationURLParams) (string, error)

	// CompleteSignIn validates the provider callback against the state bound
	// to this browser, exchanges the authorization code, and returns the
	// provider's identity claims.
	CompleteSignIn(ctx context.Context, r *http.Request, state StatePayload, baseURL string) (map[string]any, error)

	// Authenticated maps provider claims to the session data the host wants
	// to carry, typically upserting a local account along the way.
	Authenticated(ctx context.Context, claims map[string]any) (map[string]any, error)
}
