package main

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/email"
)

// newCredentialProvider wires the in-memory store and the email sender into
// the credential flow with the demo's page layout.
func newCredentialProvider(store *memoryUserStore, sender email.EmailSender) *auth.CredentialProvider {
	cp, err := auth.NewCredentialProvider(auth.CredentialConfig{
		LookupUser: func(_ context.Context, addr string) (*auth.CredentialUser, error) {
			u, ok := store.get(addr)
			if !ok || u.HashedPassword == "" {
				return nil, nil
			}
			return &auth.CredentialUser{
				HashedPassword: u.HashedPassword,
				Claims:         map[string]any{"user_id": u.ID, "email": u.Email, "name": u.Name},
			}, nil
		},
		SignUp: auth.SignUpConfig{
			CheckUserExists: func(_ context.Context, addr string) (bool, error) {
				_, ok := store.get(addr)
				return ok, nil
			},
			SendVerificationEmail: func(ctx context.Context, addr, verificationURL string) error {
				return sender.SendEmail(ctx, email.SendEmailParams{
					SendTo:   addr,
					Subject:  "Verify your email",
					Tag:      "email-verification",
					BodyHTML: fmt.Sprintf(verificationEmailHTML, verificationURL),
				})
			},
			CreateUser: func(_ context.Context, addr, hashedPassword string, extra map[string]any) (map[string]any, error) {
				name, _ := extra["name"].(string)
				store.put(user{Email: addr, Name: name, HashedPassword: hashedPassword, Provider: "credential"})
				created, _ := store.get(addr)
				return map[string]any{"user_id": created.ID, "email": addr, "name": name}, nil
			},
			Redirects: auth.SignUpRedirects{
				CheckEmail:               "/check-email",
				EmailVerificationSuccess: "/welcome",
				EmailVerificationError:   "/sign-up",
			},
		},
		PasswordReset: auth.PasswordResetConfig{
			CheckUserExists: func(_ context.Context, addr string) (string, bool, error) {
				u, ok := store.get(addr)
				if !ok || u.HashedPassword == "" {
					return "", false, nil
				}
				return u.HashedPassword, true, nil
			},
			SendPasswordResetEmail: func(ctx context.Context, addr, resetURL string) error {
				return sender.SendEmail(ctx, email.SendEmailParams{
					SendTo:   addr,
					Subject:  "Reset your password",
					Tag:      "password-reset",
					BodyHTML: fmt.Sprintf(resetEmailHTML, resetURL),
				})
			},
			UpdatePassword: func(_ context.Context, addr, newHashedPassword string) error {
				u, _ := store.get(addr)
				u.Email = addr
				u.HashedPassword = newHashedPassword
				store.put(u)
				return nil
			},
			SendPasswordUpdatedEmail: func(ctx context.Context, addr string) error {
				return sender.SendEmail(ctx, email.SendEmailParams{
					SendTo:   addr,
					Subject:  "Your password was changed",
					Tag:      "password-updated",
					BodyHTML: passwordUpdatedEmailHTML,
				})
			},
			Redirects: auth.PasswordResetRedirects{
				CheckEmail: "/check-email",
				ResetForm:  "/reset-password",
				Success:    "/sign-in",
				Error:      "/forgot-password",
			},
		},
	})
	if err != nil {
		// The config above is static; a failure here is a programming error.
		panic(err)
	}
	return cp
}

const verificationEmailHTML = `<html><body>
<p>Welcome! Confirm your email address to finish creating your account.</p>
<p><a href="%s">Verify email</a></p>
<p>The link expires in 30 minutes. If you did not sign up, ignore this email.</p>
</body></html>`

const resetEmailHTML = `<html><body>
<p>We received a request to reset your password.</p>
<p><a href="%s">Choose a new password</a></p>
<p>The link expires in 30 minutes and can be used once. If you did not ask
for this, ignore this email; your password is unchanged.</p>
</body></html>`

const passwordUpdatedEmailHTML = `<html><body>
<p>Your password was just changed. If this was not you, reset your password
immediately and contact support.</p>
</body></html>`
