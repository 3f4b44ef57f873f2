package auth

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/authkit/pkg/token"
)

// ExtendSessionMiddleware slides the session window: when a GET or HEAD
// request carries a session with less than half its lifetime remaining, the
// session is re-issued with a fresh full lifetime. Mutating requests never
// trigger a refresh so a Set-Cookie cannot race a handler that signs the
// user out.
func ExtendSessionMiddleware(cfg Config, storage SessionStorage[HTTPContext], clock func() time.Time) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				extendSession(cfg, storage, clock, w, r)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extendSession(cfg Config, storage SessionStorage[HTTPContext], clock func() time.Time, w http.ResponseWriter, r *http.Request) {
	hc := HTTPContext{W: w, R: r}
	ctx := r.Context()

	raw, err := storage.GetSession(ctx, hc)
	if err != nil || raw == "" {
		return
	}

	payload, claims, err := token.DecryptWithClaims[SessionPayload](raw, cfg.SessionSecret)
	if err != nil {
		// Expired or tampered; leave it to expire client-side.
		return
	}
	if claims.Remaining(clock()) > cfg.SessionMaxAge/2 {
		return
	}

	refreshed, err := token.Encrypt(payload, cfg.SessionSecret, cfg.SessionMaxAge)
	if err != nil {
		return
	}
	_ = storage.SaveSession(ctx, hc, refreshed)
}
