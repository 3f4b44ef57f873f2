package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/password"
	"github.com/dmitrymomot/authkit/pkg/token"
)

func newTestService(t *testing.T, store *userStore, mail *outbox, extra ...auth.Provider) (*auth.Service[testCtx], *memStorage, *memStorage) {
	t.Helper()

	cp, err := auth.NewCredentialProvider(credentialConfig(store, mail))
	require.NoError(t, err)

	providers := append([]auth.Provider{cp}, extra...)
	userStorage := &memStorage{}
	stateStorage := &memStorage{}

	svc, err := auth.New(testConfig(), userStorage, stateStorage, providers)
	require.NoError(t, err)
	return svc, userStorage, stateStorage
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BaseURL = "not a url"
	_, err := auth.New[testCtx](cfg, &memStorage{}, &memStorage{}, nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.SessionSecret = ""
	_, err = auth.New[testCtx](cfg, &memStorage{}, &memStorage{}, nil)
	assert.Error(t, err)
}

func TestSignUpAndVerifyEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newUserStore()
	mail := &outbox{}
	svc, _, _ := newTestService(t, store, mail)

	result, err := svc.SignUp(ctx, auth.SignUpParams{
		Email:    "user@example.com",
		Password: "correct horse battery",
		Extra:    map[string]any{"plan": "free"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/check-email", result.RedirectTo)

	// No account exists until the link is followed.
	_, exists := store.get("user@example.com")
	assert.False(t, exists)

	sent, ok := mail.lastVerification()
	require.True(t, ok)
	assert.Equal(t, "user@example.com", sent.To)
	assert.Contains(t, sent.URL, "https://app.example.com/api/auth/verify-email?token=")

	verified, err := svc.HandleVerifyEmail(ctx, testCtx{}, tokenFromURL(sent.URL))
	require.NoError(t, err)
	assert.Equal(t, "/welcome", verified.RedirectTo)

	hash, exists := store.get("user@example.com")
	require.True(t, exists)
	match, err := password.Verify("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, match)

	// The freshly verified user is signed in.
	session, err := svc.UserSession(ctx, testCtx{})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "credential", session.Provider)
	assert.Equal(t, "user@example.com", session.Data["email"])
	assert.Equal(t, "free", session.Data["plan"])
}

func TestSignUpDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newUserStore()
	store.put("taken@example.com", "$scrypt$n=2,r=1,p=1$c2FsdHNhbHRzYWx0c2FsdA==$aGFzaA==")
	svc, _, _ := newTestService(t, store, &outbox{})

	_, err := svc.SignUp(ctx, auth.SignUpParams{Email: "taken@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrAccountAlreadyExists)
}

func TestHandleVerifyEmailBadToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newUserStore()
	svc, userStorage, _ := newTestService(t, store, &outbox{})

	// A stale link must land on a page, not an error.
	result, err := svc.HandleVerifyEmail(ctx, testCtx{}, "garbage")
	require.NoError(t, err)
	assert.Equal(t, "/sign-up/error?error=token_verification_failed", result.RedirectTo)
	assert.Empty(t, userStorage.token)
}

func TestHandleVerifyEmailRaceWithExistingAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newUserStore()
	mail := &outbox{}
	svc, _, _ := newTestService(t, store, mail)

	_, err := svc.SignUp(ctx, auth.SignUpParams{Email: "racer@example.com", Password: "password123"})
	require.NoError(t, err)
	sent, _ := mail.lastVerification()

	// Account appears before the link is clicked.
	store.put("racer@example.com", "$scrypt$n=2,r=1,p=1$c2FsdHNhbHRzYWx0c2FsdA==$aGFzaA==")

	result, err := svc.HandleVerifyEmail(ctx, testCtx{}, tokenFromURL(sent.URL))
	require.NoError(t, err)
	assert.Equal(t, "/sign-up/error?error=account_already_exists", result.RedirectTo)
}

func TestSignInWithPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := password.Hash("s3cret-pass")
	require.NoError(t, err)

	store := newUserStore()
	store.put("user@example.com", hash)
	svc, userStorage, _ := newTestService(t, store, &outbox{})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.SignInWithPassword(ctx, testCtx{}, "user@example.com", "s3cret-pass"))

		session, err := svc.UserSession(ctx, testCtx{})
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "user@example.com", session.Data["email"])
	})

	t.Run("wrong password", func(t *testing.T) {
		err := svc.SignInWithPassword(ctx, testCtx{}, "user@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		err := svc.SignInWithPassword(ctx, testCtx{}, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("sign out clears the session", func(t *testing.T) {
		require.NoError(t, svc.SignInWithPassword(ctx, testCtx{}, "user@example.com", "s3cret-pass"))
		require.NoError(t, svc.SignOut(ctx, testCtx{}))
		assert.Empty(t, userStorage.token)

		session, err := svc.UserSession(ctx, testCtx{})
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestUserSessionAnonymous(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, newUserStore(), &outbox{})

	session, err := svc.UserSession(context.Background(), testCtx{})
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestUserSessionInvalidToken(t *testing.T) {
	t.Parallel()

	svc, userStorage, _ := newTestService(t, newUserStore(), &outbox{})
	userStorage.token = "not-a-session-token"

	session, err := svc.UserSession(context.Background(), testCtx{})
	assert.ErrorIs(t, err, token.ErrDecryptFailed)
	assert.Nil(t, session)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := password.Hash("old-password")
	require.NoError(t, err)

	store := newUserStore()
	store.put("user@example.com", hash)
	mail := &outbox{}
	svc, _, _ := newTestService(t, store, mail)

	forgot, err := svc.ForgotPassword(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/reset/check-email", forgot.RedirectTo)

	sent, ok := mail.lastReset()
	require.True(t, ok)
	assert.Contains(t, sent.URL, "/api/auth/verify-password-reset-token?token=")
	rawToken := tokenFromURL(sent.URL)

	verification, err := svc.HandleVerifyPasswordResetToken(ctx, rawToken)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", verification.Email)
	assert.Equal(t, hash, verification.PasswordHash)
	assert.Equal(t, "/reset/new-password?token="+rawToken, verification.RedirectTo)

	result, err := svc.ResetPassword(ctx, rawToken, "new-password")
	require.NoError(t, err)
	assert.Equal(t, "/reset/done", result.RedirectTo)
	assert.Contains(t, mail.updated, "user@example.com")

	newHash, _ := store.get("user@example.com")
	match, err := password.Verify("new-password", newHash)
	require.NoError(t, err)
	assert.True(t, match)

	t.Run("token is single use", func(t *testing.T) {
		// The hash changed, so the embedded binding no longer matches.
		verification, err := svc.HandleVerifyPasswordResetToken(ctx, rawToken)
		require.NoError(t, err)
		assert.Empty(t, verification.Email)
		assert.Empty(t, verification.PasswordHash)
		assert.Equal(t, "/reset/error?error=token_already_used", verification.RedirectTo)

		_, err = svc.ResetPassword(ctx, rawToken, "another-password")
		assert.ErrorIs(t, err, auth.ErrTokenAlreadyUsed)
	})
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mail := &outbox{}
	svc, _, _ := newTestService(t, newUserStore(), mail)

	result, err := svc.ForgotPassword(ctx, "nobody@example.com")
	require.NoError(t, err)
	// Same redirect as the known-email case; no email goes out.
	assert.Equal(t, "/reset/check-email", result.RedirectTo)
	_, sent := mail.lastReset()
	assert.False(t, sent)
}

func TestHandleVerifyPasswordResetTokenBadToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, newUserStore(), &outbox{})

	verification, err := svc.HandleVerifyPasswordResetToken(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Equal(t, "/reset/error?error=token_verification_failed", verification.RedirectTo)
}

func TestOAuthSignInRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := &fakeOAuthProvider{
		id:     "google",
		claims: map[string]any{"email": "user@gmail.com", "sub": "123"},
	}
	svc, _, stateStorage := newTestService(t, newUserStore(), &outbox{}, provider)

	authURL, err := svc.SignInOAuth(ctx, testCtx{}, "google", "/dashboard")
	require.NoError(t, err)
	assert.Contains(t, authURL, "https://idp.example.com/authorize?state=")
	assert.NotEmpty(t, stateStorage.token)
	assert.NotEmpty(t, provider.lastAuthParams.CodeChallenge)
	assert.Equal(t, "https://app.example.com", provider.lastAuthParams.BaseURL)

	callback := httptest.NewRequest("GET",
		"/api/auth/callback/google?code=authcode&state="+provider.lastAuthParams.State, nil)

	redirectTo, err := svc.HandleOAuthCallback(ctx, testCtx{}, "google", callback)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", redirectTo)
	// The state token is consumed by the round-trip.
	assert.Empty(t, stateStorage.token)

	session, err := svc.UserSession(ctx, testCtx{})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "google", session.Provider)
	assert.Equal(t, "user@gmail.com", session.Data["email"])
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
}

func TestOAuthCallbackWithoutState(t *testing.T) {
	t.Parallel()

	provider := &fakeOAuthProvider{id: "google"}
	svc, _, _ := newTestService(t, newUserStore(), &outbox{}, provider)

	callback := httptest.NewRequest("GET", "/api/auth/callback/google?code=x&state=y", nil)
	_, err := svc.HandleOAuthCallback(context.Background(), testCtx{}, "google", callback)
	assert.ErrorIs(t, err, auth.ErrStateNotFound)
}

func TestOAuthCallbackStateMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := &fakeOAuthProvider{id: "google", claims: map[string]any{}}
	svc, _, stateStorage := newTestService(t, newUserStore(), &outbox{}, provider)

	_, err := svc.SignInOAuth(ctx, testCtx{}, "google", "")
	require.NoError(t, err)

	callback := httptest.NewRequest("GET", "/api/auth/callback/google?code=x&state=forged", nil)
	_, err = svc.HandleOAuthCallback(ctx, testCtx{}, "google", callback)
	assert.ErrorIs(t, err, auth.ErrStateMismatch)
	// Consumed even on failure.
	assert.Empty(t, stateStorage.token)
}

func TestOAuthDefaultRedirect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider := &fakeOAuthProvider{id: "google", claims: map[string]any{"sub": "1"}}
	svc, _, _ := newTestService(t, newUserStore(), &outbox{}, provider)

	_, err := svc.SignInOAuth(ctx, testCtx{}, "google", "")
	require.NoError(t, err)

	callback := httptest.NewRequest("GET",
		"/api/auth/callback/google?code=authcode&state="+provider.lastAuthParams.State, nil)
	redirectTo, err := svc.HandleOAuthCallback(ctx, testCtx{}, "google", callback)
	require.NoError(t, err)
	assert.Equal(t, "/", redirectTo)
}

func TestSignInOAuthUnknownProvider(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, newUserStore(), &outbox{})

	_, err := svc.SignInOAuth(context.Background(), testCtx{}, "github", "/")
	assert.ErrorIs(t, err, auth.ErrProviderNotFound)
}
