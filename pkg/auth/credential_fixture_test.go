package auth_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// userStore is an in-memory account table for credential-flow tests.
type userStore struct {
	mu    sync.Mutex
	users map[string]string // email -> password hash
}

func newUserStore() *userStore {
	return &userStore{users: make(map[string]string)}
}

func (s *userStore) put(email, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = hash
}

func (s *userStore) get(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.users[email]
	return h, ok
}

// sentEmail records one outbound message.
type sentEmail struct {
	To  string
	URL string
}

// outbox collects emails the flows tried to send.
type outbox struct {
	mu            sync.Mutex
	verifications []sentEmail
	resets        []sentEmail
	updated       []string
}

func (o *outbox) lastVerification() (sentEmail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.verifications) == 0 {
		return sentEmail{}, false
	}
	return o.verifications[len(o.verifications)-1], true
}

func (o *outbox) lastReset() (sentEmail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.resets) == 0 {
		return sentEmail{}, false
	}
	return o.resets[len(o.resets)-1], true
}

func credentialConfig(store *userStore, mail *outbox) auth.CredentialConfig {
	return auth.CredentialConfig{
		LookupUser: func(_ context.Context, email string) (*auth.CredentialUser, error) {
			hash, ok := store.get(email)
			if !ok {
				return nil, nil
			}
			return &auth.CredentialUser{
				HashedPassword: hash,
				Claims:         map[string]any{"email": email},
			}, nil
		},
		SignUp: auth.SignUpConfig{
			CheckUserExists: func(_ context.Context, email string) (bool, error) {
				_, ok := store.get(email)
				return ok, nil
			},
			SendVerificationEmail: func(_ context.Context, email, verificationURL string) error {
				mail.mu.Lock()
				defer mail.mu.Unlock()
				mail.verifications = append(mail.verifications, sentEmail{To: email, URL: verificationURL})
				return nil
			},
			CreateUser: func(_ context.Context, email, hashedPassword string, extra map[string]any) (map[string]any, error) {
				store.put(email, hashedPassword)
				data := map[string]any{"email": email}
				for k, v := range extra {
					data[k] = v
				}
				return data, nil
			},
			Redirects: auth.SignUpRedirects{
				CheckEmail:               "/check-email",
				EmailVerificationSuccess: "/welcome",
				EmailVerificationError:   "/sign-up/error",
			},
		},
		PasswordReset: auth.PasswordResetConfig{
			CheckUserExists: func(_ context.Context, email string) (string, bool, error) {
				hash, ok := store.get(email)
				return hash, ok, nil
			},
			SendPasswordResetEmail: func(_ context.Context, email, resetURL string) error {
				mail.mu.Lock()
				defer mail.mu.Unlock()
				mail.resets = append(mail.resets, sentEmail{To: email, URL: resetURL})
				return nil
			},
			UpdatePassword: func(_ context.Context, email, newHashedPassword string) error {
				store.put(email, newHashedPassword)
				return nil
			},
			SendPasswordUpdatedEmail: func(_ context.Context, email string) error {
				mail.mu.Lock()
				defer mail.mu.Unlock()
				mail.updated = append(mail.updated, email)
				return nil
			},
			Redirects: auth.PasswordResetRedirects{
				CheckEmail: "/reset/check-email",
				ResetForm:  "/reset/new-password",
				Success:    "/reset/done",
				Error:      "/reset/error",
			},
		},
	}
}
