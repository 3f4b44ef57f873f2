package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

type handlers struct {
	svc *auth.Service[auth.HTTPContext]
	log *slog.Logger
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	hc := auth.HTTPContext{W: w, R: r}
	session, err := h.svc.UserSession(r.Context(), hc)
	if err != nil {
		// Expired or tampered cookie: drop it and render the page anonymous.
		_ = h.svc.SignOut(r.Context(), hc)
		session = nil
	}
	if session == nil {
		fmt.Fprintln(w, "signed out")
		return
	}
	fmt.Fprintf(w, "signed in via %s as %v (expires %s)\n",
		session.Provider, session.Data["email"], session.ExpiresAt.Format("15:04:05"))
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	addr := sanitizer.NormalizeEmail(r.FormValue("email"))
	pass := r.FormValue("password")

	if errs := validator.Apply(
		validator.ValidEmail("email", addr),
		validator.StrongPassword("password", pass, validator.DefaultPasswordStrength()),
		validator.NotCommonPassword("password", pass),
	); errs != nil {
		http.Error(w, errs.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := h.svc.SignUp(r.Context(), auth.SignUpParams{
		Email:    addr,
		Password: pass,
		Extra:    map[string]any{"name": sanitizer.Trim(r.FormValue("name"))},
	})
	if err != nil {
		if errors.Is(err, auth.ErrAccountAlreadyExists) {
			http.Error(w, "an account with this email already exists", http.StatusConflict)
			return
		}
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

func (h *handlers) verifyEmail(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.HandleVerifyEmail(r.Context(),
		auth.HTTPContext{W: w, R: r}, r.URL.Query().Get("token"))
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

func (h *handlers) signInPassword(w http.ResponseWriter, r *http.Request) {
	addr := sanitizer.NormalizeEmail(r.FormValue("email"))

	err := h.svc.SignInWithPassword(r.Context(), auth.HTTPContext{W: w, R: r}, addr, r.FormValue("password"))
	if err != nil {
		// Unknown account and wrong password render the same to the user.
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrAccountNotFound) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context(), auth.HTTPContext{W: w, R: r}); err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) forgotPassword(w http.ResponseWriter, r *http.Request) {
	addr := sanitizer.NormalizeEmail(r.FormValue("email"))
	if errs := validator.Apply(validator.ValidEmail("email", addr)); errs != nil {
		http.Error(w, errs.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := h.svc.ForgotPassword(r.Context(), addr)
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

func (h *handlers) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	verification, err := h.svc.HandleVerifyPasswordResetToken(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, verification.RedirectTo, http.StatusSeeOther)
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	pass := r.FormValue("password")
	if errs := validator.Apply(
		validator.StrongPassword("password", pass, validator.DefaultPasswordStrength()),
		validator.NotCommonPassword("password", pass),
	); errs != nil {
		http.Error(w, errs.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := h.svc.ResetPassword(r.Context(), r.FormValue("token"), pass)
	if err != nil {
		if errors.Is(err, auth.ErrTokenAlreadyUsed) {
			http.Error(w, "this reset link was already used", http.StatusGone)
			return
		}
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

func (h *handlers) signInOAuth(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.svc.SignInOAuth(r.Context(), auth.HTTPContext{W: w, R: r},
		chi.URLParam(r, "provider"), r.URL.Query().Get("redirect_to"))
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusSeeOther)
}

func (h *handlers) oauthCallback(w http.ResponseWriter, r *http.Request) {
	redirectTo, err := h.svc.HandleOAuthCallback(r.Context(),
		auth.HTTPContext{W: w, R: r}, chi.URLParam(r, "provider"), r)
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	h.log.Error("request failed", logger.Error(err))
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}
