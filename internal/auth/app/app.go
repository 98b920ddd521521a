package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/reelbase/reelbase/internal/auth/http"
	"github.com/reelbase/reelbase/internal/auth/mail"
	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/internal/auth/store"
	"github.com/reelbase/reelbase/internal/auth/store/drivers/redisotp"
	"github.com/reelbase/reelbase/internal/auth/store/drivers/sqlite"
	"github.com/reelbase/reelbase/pkg/cryptox"
	"github.com/reelbase/reelbase/pkg/jwtx"
	"github.com/reelbase/reelbase/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	otps     store.OTPEntries
	otpCache *redisotp.Repo // non-nil only when Redis backs the OTP entries
	signer   jwtx.Signer
	verifier jwtx.Verifier
	mailer   mail.Mailer

	// Services
	tokenService        *service.TokenService
	otpService          *service.OTPService
	authService         *service.AuthService
	externalService     *service.ExternalLoginService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initSigningKeys(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initSigningKeys builds the HMAC signer and verifier from the configured secret
func (app *Application) initSigningKeys() error {
	key := []byte(app.cfg.AccessTokenSecret)

	signer, err := jwtx.NewSignerHS256(app.cfg.AccessTokenKID, key)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	verifier, err := jwtx.NewVerifierHS256(app.cfg.AccessTokenKID, key, app.cfg.Issuer, app.cfg.Audience)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.verifier = verifier

	return nil
}

// initDatabase initializes the database, applies migrations and picks the OTP backend
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")

	// OTP entries default to SQLite alongside everything else. Redis takes
	// over when configured, which keeps OTP churn out of the main database.
	app.otps = db.OTPEntries()
	if app.cfg.RedisAddr != "" {
		cache := redisotp.New(app.cfg.RedisAddr)
		if err := cache.Ping(context.Background()); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.RedisAddr, err)
		}
		app.otpCache = cache
		app.otps = cache
		app.logger.Info("otp entries backed by redis", "addr", app.cfg.RedisAddr)
	}

	return nil
}

// initMailer selects the OTP delivery channel
func (app *Application) initMailer() error {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, OTP codes will be logged instead of mailed")
		app.mailer = &mail.LogMailer{Logger: app.logger}
		return nil
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize SMTP mailer: %w", err)
	}
	app.mailer = mailer
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.otpService = &service.OTPService{
		OTPs:   app.otps,
		Mailer: app.mailer,
		TTL:    app.cfg.OTPTTL,
	}

	app.authService = &service.AuthService{
		Store:  app.db,
		OTP:    app.otpService,
		Tokens: app.tokenService,
	}

	app.externalService = &service.ExternalLoginService{
		Store:     app.db,
		Tokens:    app.tokenService,
		Providers: app.cfg.Providers,
	}
	for name := range app.cfg.Providers {
		app.logger.Info("external login provider configured", "provider", name)
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.otps,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	var cachePinger httpapi.Pinger
	if app.otpCache != nil {
		cachePinger = app.otpCache
	}

	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		cachePinger,
		httpapi.CookieSettings{Secure: app.cfg.CookieSecure},
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.TokenService = app.tokenService
	router.ExternalService = app.externalService
	router.FrontendRedirectURL = app.cfg.FrontendRedirectURL
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
