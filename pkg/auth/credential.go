package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/authkit/pkg/password"
	"github.com/dmitrymomot/authkit/pkg/token"
)

// CredentialUser is the host's view of a local account as returned by
// LookupUser. Claims become the session data on successful sign-in.
type CredentialUser struct {
	HashedPassword string
	Claims         map[string]any
}

// SignUpRedirects are the browser destinations of the sign-up flow.
type SignUpRedirects struct {
	// CheckEmail is shown after a verification email was sent.
	CheckEmail string
	// EmailVerificationSuccess is shown after the account was created.
	EmailVerificationSuccess string
	// EmailVerificationError is shown when the verification link is invalid
	// or expired; an error=<code> parameter is appended.
	EmailVerificationError string
}

// SignUpConfig wires the host's persistence and mail delivery into sign-up.
type SignUpConfig struct {
	// CheckUserExists reports whether an account already uses the email.
	CheckUserExists func(ctx context.Context, email string) (bool, error)
	// SendVerificationEmail delivers the verification link to the address.
	SendVerificationEmail func(ctx context.Context, email, verificationURL string) error
	// CreateUser persists the account once the email is proven. The hash is
	// the one captured at sign-up time; extra carries any host-defined fields
	// that rode along in the token.
	CreateUser func(ctx context.Context, email, hashedPassword string, extra map[string]any) (map[string]any, error)

	Redirects SignUpRedirects
}

// PasswordResetRedirects are the browser destinations of the reset flow.
type PasswordResetRedirects struct {
	// CheckEmail is shown after a reset email was sent (or pretended to be).
	CheckEmail string
	// ResetForm is the page hosting the new-password form; the verified token
	// is appended as token=<...> so the form can submit it back.
	ResetForm string
	// Success is shown after the password was updated.
	Success string
	// Error is shown when the reset link is invalid, expired, or already
	// used; an error=<code> parameter is appended.
	Error string
}

// PasswordResetConfig wires the host's persistence and mail delivery into the
// password-reset flow.
type PasswordResetConfig struct {
	// CheckUserExists returns the account's current password hash when the
	// email is registered. exists=false is not an error; the flow stays
	// silent about unknown addresses.
	CheckUserExists func(ctx context.Context, email string) (passwordHash string, exists bool, err error)
	// SendPasswordResetEmail delivers the reset link to the address.
	SendPasswordResetEmail func(ctx context.Context, email, resetURL string) error
	// UpdatePassword replaces the account's password hash.
	UpdatePassword func(ctx context.Context, email, newHashedPassword string) error
	// SendPasswordUpdatedEmail notifies the address that the password
	// changed. Optional.
	SendPasswordUpdatedEmail func(ctx context.Context, email string) error

	Redirects PasswordResetRedirects
}

// CredentialConfig configures the email/password provider.
type CredentialConfig struct {
	// LookupUser returns the account for a normalized email, or nil when no
	// account exists. Used by password sign-in.
	LookupUser func(ctx context.Context, email string) (*CredentialUser, error)

	SignUp        SignUpConfig
	PasswordReset PasswordResetConfig
}

// CredentialProvider implements email/password sign-up, sign-in, email
// verification, and password reset on top of signed tokens, so no
// server-side state exists before the email is proven.
type CredentialProvider struct {
	cfg     CredentialConfig
	secret  string
	baseURL string

	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewCredentialProvider validates the callback wiring and returns the
// provider. Secrets, base URL, and token lifetimes are injected from the
// service Config when the provider is registered.
func NewCredentialProvider(cfg CredentialConfig) (*CredentialProvider, error) {
	if err := validateCredentialConfig(cfg); err != nil {
		return nil, err
	}
	return &CredentialProvider{cfg: cfg}, nil
}

func (p *CredentialProvider) bind(c Config) {
	p.secret = c.SessionSecret
	p.baseURL = c.BaseURL
	p.verificationTTL = c.VerificationTokenTTL
	p.resetTTL = c.ResetTokenTTL
}

// SignUpParams are the inputs to SignUp. Extra is embedded in the
// verification token and handed back to CreateUser verbatim.
type SignUpParams struct {
	Email    string
	Password string
	Extra    map[string]any
}

// ID implements Provider.
func (p *CredentialProvider) ID() string { return "credential" }

// Type implements Provider.
func (p *CredentialProvider) Type() string { return ProviderTypeCredential }

// SignUp hashes the password, signs a verification token carrying the email
// and hash, and emails the verification link. No account is created yet.
func (p *CredentialProvider) SignUp(ctx context.Context, params SignUpParams) (RedirectResult, error) {
	exists, err := p.cfg.SignUp.CheckUserExists(ctx, params.Email)
	if err != nil {
		return RedirectResult{}, callbackError("CheckUserExists", err)
	}
	if exists {
		return RedirectResult{}, fmt.Errorf("%w: %s", ErrAccountAlreadyExists, params.Email)
	}

	hashed, err := password.Hash(params.Password)
	if err != nil {
		return RedirectResult{}, err
	}

	tok, err := token.Sign(emailVerificationPayload{
		Email:          params.Email,
		HashedPassword: hashed,
		Extra:          params.Extra,
	}, p.secret, p.verificationTTL)
	if err != nil {
		return RedirectResult{}, err
	}

	verifyURL, err := buildActionURL(p.baseURL, RouteVerifyEmail, tok)
	if err != nil {
		return RedirectResult{}, classify("build verification url", err)
	}
	if err := p.cfg.SignUp.SendVerificationEmail(ctx, params.Email, verifyURL); err != nil {
		return RedirectResult{}, callbackError("SendVerificationEmail", err)
	}

	return RedirectResult{RedirectTo: p.cfg.SignUp.Redirects.CheckEmail}, nil
}

// VerifyEmail redeems an emailed verification token and creates the account.
// Every failure, including a broken host callback, redirects to the error
// page with a code instead of erroring: the user clicked a link, so the
// worst outcome must still be a page render. Returns the session data for
// the new account alongside the redirect, or nil data when verification
// failed.
func (p *CredentialProvider) VerifyEmail(ctx context.Context, rawToken string) (map[string]any, RedirectResult) {
	payload, err := token.Verify[emailVerificationPayload](rawToken, p.secret)
	if err != nil {
		return nil, p.verifyEmailError(err)
	}

	// The account may have appeared between sending the link and clicking
	// it, e.g. a second sign-up attempt racing this one.
	exists, err := p.cfg.SignUp.CheckUserExists(ctx, payload.Email)
	if err != nil {
		return nil, p.verifyEmailError(callbackError("CheckUserExists", err))
	}
	if exists {
		return nil, p.verifyEmailError(ErrAccountAlreadyExists)
	}

	data, err := p.cfg.SignUp.CreateUser(ctx, payload.Email, payload.HashedPassword, payload.Extra)
	if err != nil {
		return nil, p.verifyEmailError(callbackError("CreateUser", err))
	}

	return data, RedirectResult{RedirectTo: p.cfg.SignUp.Redirects.EmailVerificationSuccess}
}

func (p *CredentialProvider) verifyEmailError(err error) RedirectResult {
	return RedirectResult{
		RedirectTo: appendErrorCode(p.cfg.SignUp.Redirects.EmailVerificationError, errorCode(err)),
	}
}

// SignInWithPassword authenticates an email/password pair and returns the
// account's session data. The session data comes from CredentialUser.Claims;
// the password hash never leaves this method.
func (p *CredentialProvider) SignInWithPassword(ctx context.Context, email, pass string) (map[string]any, error) {
	user, err := p.cfg.LookupUser(ctx, email)
	if err != nil {
		return nil, callbackError("LookupUser", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, email)
	}

	ok, err := password.Verify(pass, user.HashedPassword)
	if err != nil {
		return nil, classify("verify password", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user.Claims, nil
}

// ForgotPassword emails a reset link when the address has an account. The
// returned redirect is identical either way so the endpoint cannot be used
// to enumerate accounts.
func (p *CredentialProvider) ForgotPassword(ctx context.Context, email string) (RedirectResult, error) {
	checkEmail := RedirectResult{RedirectTo: p.cfg.PasswordReset.Redirects.CheckEmail}

	hash, exists, err := p.cfg.PasswordReset.CheckUserExists(ctx, email)
	if err != nil {
		return RedirectResult{}, callbackError("CheckUserExists", err)
	}
	if !exists {
		return checkEmail, nil
	}

	tok, err := token.Sign(resetPayload{Email: email, PasswordHash: hash}, p.secret, p.resetTTL)
	if err != nil {
		return RedirectResult{}, err
	}

	resetURL, err := buildActionURL(p.baseURL, RouteVerifyPasswordResetToken, tok)
	if err != nil {
		return RedirectResult{}, classify("build reset url", err)
	}
	if err := p.cfg.PasswordReset.SendPasswordResetEmail(ctx, email, resetURL); err != nil {
		return RedirectResult{}, callbackError("SendPasswordResetEmail", err)
	}

	return checkEmail, nil
}

// VerifyPasswordResetToken redeems an emailed reset link. The token embeds
// the password hash current at issue time; if the account's hash has since
// changed the token is treated as already used. On success the browser is
// sent to the reset form with the still-valid token attached; every failure
// yields an error-coded redirect with the email and hash left empty.
func (p *CredentialProvider) VerifyPasswordResetToken(ctx context.Context, rawToken string) ResetTokenVerification {
	payload, err := token.Verify[resetPayload](rawToken, p.secret)
	if err != nil {
		return p.resetTokenError(err)
	}

	currentHash, exists, err := p.cfg.PasswordReset.CheckUserExists(ctx, payload.Email)
	if err != nil {
		return p.resetTokenError(callbackError("CheckUserExists", err))
	}
	if !exists {
		return p.resetTokenError(ErrAccountNotFound)
	}
	if currentHash != payload.PasswordHash {
		return p.resetTokenError(ErrTokenAlreadyUsed)
	}

	return ResetTokenVerification{
		Email:        payload.Email,
		PasswordHash: payload.PasswordHash,
		RedirectTo:   appendQueryParam(p.cfg.PasswordReset.Redirects.ResetForm, "token", rawToken),
	}
}

func (p *CredentialProvider) resetTokenError(err error) ResetTokenVerification {
	return ResetTokenVerification{
		RedirectTo: appendErrorCode(p.cfg.PasswordReset.Redirects.Error, errorCode(err)),
	}
}

// ResetPassword consumes a verified reset token and sets the new password.
// Unlike the link-following steps this is a form POST, so failures are typed
// errors for the host to render.
func (p *CredentialProvider) ResetPassword(ctx context.Context, rawToken, newPassword string) (RedirectResult, error) {
	payload, err := token.Verify[resetPayload](rawToken, p.secret)
	if err != nil {
		return RedirectResult{}, err
	}

	currentHash, exists, err := p.cfg.PasswordReset.CheckUserExists(ctx, payload.Email)
	if err != nil {
		return RedirectResult{}, callbackError("CheckUserExists", err)
	}
	if !exists {
		return RedirectResult{}, fmt.Errorf("%w: %s", ErrAccountNotFound, payload.Email)
	}
	if currentHash != payload.PasswordHash {
		return RedirectResult{}, ErrTokenAlreadyUsed
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return RedirectResult{}, err
	}
	if err := p.cfg.PasswordReset.UpdatePassword(ctx, payload.Email, hashed); err != nil {
		return RedirectResult{}, callbackError("UpdatePassword", err)
	}

	if p.cfg.PasswordReset.SendPasswordUpdatedEmail != nil {
		if err := p.cfg.PasswordReset.SendPasswordUpdatedEmail(ctx, payload.Email); err != nil {
			return RedirectResult{}, callbackError("SendPasswordUpdatedEmail", err)
		}
	}

	return RedirectResult{RedirectTo: p.cfg.PasswordReset.Redirects.Success}, nil
}

func validateCredentialConfig(cfg CredentialConfig) error {
	switch {
	case cfg.LookupUser == nil:
		return errors.New("auth: credential provider requires LookupUser")
	case cfg.SignUp.CheckUserExists == nil,
		cfg.SignUp.SendVerificationEmail == nil,
		cfg.SignUp.CreateUser == nil:
		return errors.New("auth: credential provider sign-up callbacks are incomplete")
	case cfg.PasswordReset.CheckUserExists == nil,
		cfg.PasswordReset.SendPasswordResetEmail == nil,
		cfg.PasswordReset.UpdatePassword == nil:
		return errors.New("auth: credential provider password-reset callbacks are incomplete")
	}
	return nil
}
