package auth_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// testCtx stands in for the host's transport context; the in-memory storage
// below identifies the browser by storage instance instead.
type testCtx struct{}

var testSecret = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))

func testConfig() auth.Config {
	return auth.Config{
		BaseURL:              "https://app.example.com",
		SessionSecret:        testSecret,
		SessionMaxAge:        time.Hour,
		StateMaxAge:          10 * time.Minute,
		VerificationTokenTTL: 30 * time.Minute,
		ResetTokenTTL:        30 * time.Minute,
	}
}

// memStorage holds a single token, mimicking one browser's cookie jar slot.
type memStorage struct {
	mu    sync.Mutex
	token string
}

func (m *memStorage) GetSession(context.Context, testCtx) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStorage) SaveSession(_ context.Context, _ testCtx, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memStorage) DeleteSession(context.Context, testCtx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// fakeOAuthProvider is a minimal OAuthProvider that echoes whatever the test
// configures, recording the inputs it saw.
type fakeOAuthProvider struct {
	id string

	lastAuthParams auth.AuthorizationURLParams
	claims         map[string]any
	completeErr    error
	authenticated  func(ctx context.Context, claims map[string]any) (map[string]any, error)
}

func (f *fakeOAuthProvider) ID() string   { return f.id }
func (f *fakeOAuthProvider) Type() string { return auth.ProviderTypeOAuth }

func (f *fakeOAuthProvider) AuthorizationURL(params auth.AuthorizationURLParams) (string, error) {
	f.lastAuthParams = params
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(params.State), nil
}

func (f *fakeOAuthProvider) CompleteSignIn(_ context.Context, r *http.Request, state auth.StatePayload, _ string) (map[string]any, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	if r.URL.Query().Get("state") != state.State {
		return nil, auth.ErrStateMismatch
	}
	if r.URL.Query().Get("code") == "" {
		return nil, auth.ErrAuthorizationCodeNotFound
	}
	return f.claims, nil
}

func (f *fakeOAuthProvider) Authenticated(ctx context.Context, claims map[string]any) (map[string]any, error) {
	if f.authenticated != nil {
		return f.authenticated(ctx, claims)
	}
	return claims, nil
}

// tokenFromURL extracts the token query parameter from an emailed link.
func tokenFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}
