package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Service is the facade the host talks to. It composes the provider
// registry, the OAuth and session services, and the host's two token
// storages: one long-lived (user session), one short-lived (OAuth state).
type Service[C any] struct {
	cfg      Config
	registry *Registry
	oauth    *oauthService
	sessions *sessionService

	userStorage  SessionStorage[C]
	stateStorage SessionStorage[C]

	log *slog.Logger
}

// Option configures optional Service collaborators.
type Option[C any] func(*Service[C])

// WithLogger sets the structured logger. By default logs are discarded.
func WithLogger[C any](log *slog.Logger) Option[C] {
	return func(s *Service[C]) {
		if log != nil {
			s.log = log
		}
	}
}

// New validates the configuration and wires the service together.
func New[C any](cfg Config, userStorage, stateStorage SessionStorage[C], providers []Provider, opts ...Option[C]) (*Service[C], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := NewRegistry(providers...)
	for _, p := range providers {
		if cp, ok := p.(*CredentialProvider); ok {
			cp.bind(cfg)
		}
	}

	s := &Service[C]{
		cfg:          cfg,
		registry:     registry,
		oauth:        &oauthService{cfg: cfg, registry: registry},
		sessions:     &sessionService{secret: cfg.SessionSecret, maxAge: cfg.SessionMaxAge},
		userStorage:  userStorage,
		stateStorage: stateStorage,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SignInOAuth begins a federated sign-in: the state token is saved through
// the state storage and the returned URL is where the browser must go next.
func (s *Service[C]) SignInOAuth(ctx context.Context, c C, providerID, redirectTo string) (string, error) {
	result, err := s.oauth.initiateSignIn(providerID, redirectTo)
	if err != nil {
		s.log.ErrorContext(ctx, "oauth sign-in initiation failed",
			logger.Provider(providerID), logger.Error(err))
		return "", err
	}
	if err := s.stateStorage.SaveSession(ctx, c, result.StateToken); err != nil {
		return "", classify("save state token", err)
	}

	s.log.InfoContext(ctx, "oauth sign-in initiated", logger.Provider(providerID))
	return result.AuthorizationURL, nil
}

// HandleOAuthCallback finishes a federated sign-in. The state token is
// deleted whatever the outcome so a failed round-trip cannot be replayed.
// On success the user session is created and the post-login redirect
// returned.
func (s *Service[C]) HandleOAuthCallback(ctx context.Context, c C, providerID string, r *http.Request) (string, error) {
	stateToken, err := s.stateStorage.GetSession(ctx, c)
	if err != nil {
		return "", classify("read state token", err)
	}
	// One shot per round-trip regardless of outcome.
	if delErr := s.stateStorage.DeleteSession(ctx, c); delErr != nil {
		s.log.WarnContext(ctx, "failed to clear oauth state", logger.Error(delErr))
	}

	data, redirectTo, err := s.oauth.completeSignIn(ctx, r, providerID, stateToken)
	if err != nil {
		s.log.ErrorContext(ctx, "oauth callback failed",
			logger.Provider(providerID), logger.Error(err))
		return "", err
	}

	if err := s.createSession(ctx, c, data, providerID); err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "oauth sign-in completed", logger.Provider(providerID))
	return redirectTo, nil
}

// SignUp starts credential registration; see CredentialProvider.SignUp.
func (s *Service[C]) SignUp(ctx context.Context, params SignUpParams) (RedirectResult, error) {
	cp, err := s.registry.Credential()
	if err != nil {
		return RedirectResult{}, err
	}
	result, err := cp.SignUp(ctx, params)
	if err != nil {
		s.log.ErrorContext(ctx, "sign-up failed", logger.Email(params.Email), logger.Error(err))
		return RedirectResult{}, err
	}
	s.log.InfoContext(ctx, "verification email sent", logger.Email(params.Email))
	return result, nil
}

// HandleVerifyEmail redeems an emailed verification token, creates the
// account, and signs the new user in. Verification failures surface as an
// error-coded redirect, not an error.
func (s *Service[C]) HandleVerifyEmail(ctx context.Context, c C, rawToken string) (RedirectResult, error) {
	cp, err := s.registry.Credential()
	if err != nil {
		return RedirectResult{}, err
	}

	data, result := cp.VerifyEmail(ctx, rawToken)
	if data != nil {
		if err := s.createSession(ctx, c, data, cp.ID()); err != nil {
			return RedirectResult{}, err
		}
		s.log.InfoContext(ctx, "email verified, account created")
	}
	return result, nil
}

// SignInWithPassword authenticates an email/password pair and creates the
// user session.
func (s *Service[C]) SignInWithPassword(ctx context.Context, c C, email, password string) error {
	cp, err := s.registry.Credential()
	if err != nil {
		return err
	}

	data, err := cp.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.log.WarnContext(ctx, "password sign-in rejected", logger.Error(err))
		return err
	}

	if err := s.createSession(ctx, c, data, cp.ID()); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "password sign-in completed")
	return nil
}

// ForgotPassword starts the reset flow; the result never reveals whether the
// address has an account.
func (s *Service[C]) ForgotPassword(ctx context.Context, email string) (RedirectResult, error) {
	cp, err := s.registry.Credential()
	if err != nil {
		return RedirectResult{}, err
	}
	return cp.ForgotPassword(ctx, email)
}

// HandleVerifyPasswordResetToken redeems an emailed reset link. Like email
// verification, failures land on the error page rather than erroring.
func (s *Service[C]) HandleVerifyPasswordResetToken(ctx context.Context, rawToken string) (ResetTokenVerification, error) {
	cp, err := s.registry.Credential()
	if err != nil {
		return ResetTokenVerification{}, err
	}
	return cp.VerifyPasswordResetToken(ctx, rawToken), nil
}

// ResetPassword sets a new password for the account bound to the token.
func (s *Service[C]) ResetPassword(ctx context.Context, rawToken, newPassword string) (RedirectResult, error) {
	cp, err := s.registry.Credential()
	if err != nil {
		return RedirectResult{}, err
	}
	result, err := cp.ResetPassword(ctx, rawToken, newPassword)
	if err != nil {
		s.log.ErrorContext(ctx, "password reset failed", logger.Error(err))
		return RedirectResult{}, err
	}
	s.log.InfoContext(ctx, "password reset completed")
	return result, nil
}

// UserSession returns the current session, (nil, nil) when the request
// carries no session token, or a decrypt error when the token is expired or
// tampered.
func (s *Service[C]) UserSession(ctx context.Context, c C) (*Session, error) {
	raw, err := s.userStorage.GetSession(ctx, c)
	if err != nil {
		return nil, classify("read session token", err)
	}
	return s.sessions.read(raw)
}

// SignOut deletes the user session token from the client.
func (s *Service[C]) SignOut(ctx context.Context, c C) error {
	if err := s.userStorage.DeleteSession(ctx, c); err != nil {
		return classify("delete session token", err)
	}
	return nil
}

// Registry exposes the configured providers, e.g. for rendering sign-in
// buttons.
func (s *Service[C]) Registry() *Registry {
	return s.registry
}

func (s *Service[C]) createSession(ctx context.Context, c C, data map[string]any, providerID string) error {
	tok, err := s.sessions.create(data, providerID)
	if err != nil {
		return err
	}
	if err := s.userStorage.SaveSession(ctx, c, tok); err != nil {
		return classify("save session token", err)
	}
	return nil
}
