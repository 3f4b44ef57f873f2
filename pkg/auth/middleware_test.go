package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/token"
)

func sessionToken(t *testing.T, maxAge time.Duration) string {
	t.Helper()
	tok, err := token.Encrypt(auth.SessionPayload{
		Provider: "credential",
		MaxAge:   int64(maxAge.Seconds()),
		Data:     map[string]any{"email": "user@example.com"},
	}, testSecret, maxAge)
	require.NoError(t, err)
	return tok
}

func runExtendMiddleware(t *testing.T, method, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	cfg := testConfig()
	storage := auth.NewCookieStorage(auth.SessionCookieName, cfg.SessionMaxAge,
		auth.WithCookieSecure(false))
	handler := auth.ExtendSessionMiddleware(cfg, storage, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(method, "/dashboard", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestExtendSessionMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("refreshes a session past half life", func(t *testing.T) {
		t.Parallel()
		// Issued with 10m left against a 1h window, so well past half life.
		stale := sessionToken(t, 10*time.Minute)

		rec := runExtendMiddleware(t, http.MethodGet, stale)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		refreshed := cookies[0].Value
		assert.NotEqual(t, stale, refreshed)

		payload, claims, err := token.DecryptWithClaims[auth.SessionPayload](refreshed, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", payload.Data["email"])
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
	})

	t.Run("leaves a fresh session alone", func(t *testing.T) {
		t.Parallel()
		fresh := sessionToken(t, time.Hour)

		rec := runExtendMiddleware(t, http.MethodGet, fresh)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("never refreshes on mutating methods", func(t *testing.T) {
		t.Parallel()
		stale := sessionToken(t, 10*time.Minute)

		rec := runExtendMiddleware(t, http.MethodPost, stale)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("ignores anonymous requests", func(t *testing.T) {
		t.Parallel()
		rec := runExtendMiddleware(t, http.MethodGet, "")
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("ignores tampered tokens", func(t *testing.T) {
		t.Parallel()
		rec := runExtendMiddleware(t, http.MethodGet, "not-a-token")
		assert.Empty(t, rec.Result().Cookies())
	})
}
