package auth

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/pkce"
	"github.com/dmitrymomot/authkit/pkg/token"
)

// oauthService runs the federated sign-in round-trip: build the provider
// redirect on the way out, verify state and exchange the code on the way
// back. It is transport-agnostic; the Service facade moves the state token
// through SessionStorage.
type oauthService struct {
	cfg      Config
	registry *Registry
}

// initiateSignIn creates fresh state and PKCE material, encrypts them into a
// short-lived state token, and returns the provider's authorization URL.
func (s *oauthService) initiateSignIn(providerID, redirectTo string) (SignInResult, error) {
	provider, err := s.registry.OAuth(providerID)
	if err != nil {
		return SignInResult{}, err
	}

	state, err := pkce.GenerateState()
	if err != nil {
		return SignInResult{}, classify("generate state", err)
	}
	verifier, err := pkce.GenerateCodeVerifier()
	if err != nil {
		return SignInResult{}, classify("generate code verifier", err)
	}

	authURL, err := provider.AuthorizationURL(AuthorizationURLParams{
		State:         state,
		CodeChallenge: pkce.CodeChallenge(verifier),
		BaseURL:       s.cfg.BaseURL,
	})
	if err != nil {
		return SignInResult{}, classify("build authorization url", err)
	}

	stateToken, err := token.Encrypt(StatePayload{
		State:        state,
		CodeVerifier: verifier,
		RedirectTo:   redirectTo,
		Provider:     providerID,
	}, s.cfg.SessionSecret, s.cfg.StateMaxAge)
	if err != nil {
		return SignInResult{}, err
	}

	return SignInResult{AuthorizationURL: authURL, StateToken: stateToken}, nil
}

// completeSignIn validates the callback against the browser's state token
// and returns the session data plus the post-login redirect. stateToken is
// the raw token read from storage; "" means the browser never started a
// sign-in here.
func (s *oauthService) completeSignIn(ctx context.Context, r *http.Request, providerID, stateToken string) (map[string]any, string, error) {
	if stateToken == "" {
		return nil, "", ErrStateNotFound
	}

	state, err := token.Decrypt[StatePayload](stateToken, s.cfg.SessionSecret)
	if err != nil {
		return nil, "", err
	}
	if state.Provider != providerID {
		return nil, "", ErrStateMismatch
	}

	provider, err := s.registry.OAuth(providerID)
	if err != nil {
		return nil, "", err
	}

	claims, err := provider.CompleteSignIn(ctx, r, state, s.cfg.BaseURL)
	if err != nil {
		return nil, "", classify("complete sign in", err)
	}

	data, err := provider.Authenticated(ctx, claims)
	if err != nil {
		return nil, "", callbackError("Authenticated", err)
	}

	redirectTo := state.RedirectTo
	if redirectTo == "" {
		redirectTo = "/"
	}
	return data, redirectTo, nil
}
