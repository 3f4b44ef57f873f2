// Command demo is a runnable host application wiring the auth service into a
// chi router with cookie-backed sessions and an in-memory user store. Emails
// land in a local outbox directory unless Postmark credentials are set.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/email"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

type appConfig struct {
	Addr         string `env:"ADDR" envDefault:":8080"`
	DevEmailDir  string `env:"DEV_EMAIL_DIR" envDefault:"./tmp/outbox"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	var authCfg auth.Config
	config.MustLoad(&authCfg)

	log := logger.New(
		logger.WithFormat(logger.Format(appCfg.LogFormat)),
		logger.WithAttr(slog.String("app", "authkit-demo")),
	)

	sender := newEmailSender(appCfg, log)
	store := newMemoryUserStore()

	providers := []auth.Provider{
		newCredentialProvider(store, sender),
	}
	var googleCfg auth.GoogleConfig
	if err := config.Load(&googleCfg); err == nil {
		google, err := auth.NewGoogleProvider(googleCfg, store.upsertFromOAuth)
		if err != nil {
			log.Error("google provider init failed", logger.Error(err))
			os.Exit(1)
		}
		providers = append(providers, google)
	} else {
		log.Warn("google provider disabled, credentials not configured")
	}

	cookieOpts := []auth.CookieOption{auth.WithCookieSecure(appCfg.CookieSecure)}
	userStorage := auth.NewCookieStorage(auth.SessionCookieName, authCfg.SessionMaxAge, cookieOpts...)
	stateStorage := auth.NewCookieStorage(auth.StateCookieName, authCfg.StateMaxAge, cookieOpts...)

	svc, err := auth.New(authCfg, userStorage, stateStorage, providers,
		auth.WithLogger[auth.HTTPContext](log))
	if err != nil {
		log.Error("auth service init failed", logger.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              appCfg.Addr,
		Handler:           newRouter(svc, authCfg, userStorage, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", "addr", appCfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", logger.Error(err))
	}
}

func newEmailSender(cfg appConfig, log *slog.Logger) email.EmailSender {
	var emailCfg email.Config
	if err := config.Load(&emailCfg); err == nil {
		if sender, err := email.NewPostmarkClient(emailCfg); err == nil {
			return sender
		}
	}

	sender, err := email.NewDevSender(cfg.DevEmailDir)
	if err != nil {
		panic(err)
	}
	log.Warn("postmark not configured, writing emails to disk", "dir", cfg.DevEmailDir)
	return sender
}

func newRouter(svc *auth.Service[auth.HTTPContext], cfg auth.Config, userStorage *auth.CookieStorage, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(auth.ExtendSessionMiddleware(cfg, userStorage, nil))

	h := &handlers{svc: svc, log: log}

	r.Get("/", h.home)
	r.Post("/sign-up", h.signUp)
	r.Post("/sign-in", h.signInPassword)
	r.Post("/sign-out", h.signOut)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
	r.Get("/sign-in/{provider}", h.signInOAuth)
	r.Get(auth.RouteOAuthCallback+"/{provider}", h.oauthCallback)
	r.Get(auth.RouteVerifyEmail, h.verifyEmail)
	r.Get(auth.RouteVerifyPasswordResetToken, h.verifyResetToken)

	return r
}
