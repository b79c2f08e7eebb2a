package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/contact"
	"github.com/portfolio/internal/content"
	"github.com/portfolio/internal/crypto"
	"github.com/portfolio/internal/mailer"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config    *config.Config
	logger    *slog.Logger
	zap       *zap.Logger
	portfolio *content.Portfolio
	transport mailer.Transport
	contact   *contact.Service
	hasher    *crypto.Hasher
}

func (app *App) Close() {
	if app.zap != nil {
		// Sync on a terminal stdout reports EINVAL; nothing to do about it.
		_ = app.zap.Sync()
	}
}

func New(opts ...config.Option) (*App, error) {
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, zl, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	transport, err := mailer.New(cfg.Mailer(), logger)
	if err != nil {
		return nil, fmt.Errorf("mail transport: %w", err)
	}

	app, err := newApp(cfg, logger, transport)
	if err != nil {
		return nil, err
	}
	app.zap = zl
	return app, nil
}

func newApp(cfg *config.Config, logger *slog.Logger, transport mailer.Transport) (*App, error) {
	portfolio, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	hasher, err := crypto.NewHasher(cfg.ClientHashKey)
	if err != nil {
		return nil, fmt.Errorf("client hasher: %w", err)
	}

	return &App{
		config:    cfg,
		logger:    logger,
		portfolio: portfolio,
		transport: transport,
		contact:   contact.NewService(transport, cfg.MailFrom(), cfg.Recipient()),
		hasher:    hasher,
	}, nil
}

// Portfolio returns the loaded site content.
func (app *App) Portfolio() *content.Portfolio {
	return app.portfolio
}

// SendTest forwards a fixed submission through the configured transport so an
// operator can check mail credentials without using the site.
func (app *App) SendTest(ctx context.Context, replyTo string) error {
	sub := contact.Submission{
		Name:    "Portfolio self-test",
		Email:   replyTo,
		Subject: "Test message",
		Message: "This message was sent by the send-test command.\nIf you can read it, mail delivery works.",
	}

	app.logger.Info("sending test message", "provider", app.config.MailProvider, "to", app.config.Recipient())
	if err := app.contact.Submit(ctx, sub); err != nil {
		return fmt.Errorf("send test message: %w", err)
	}
	return nil
}

func (app *App) Start(ctx context.Context) error {
	// Create an errgroup derived from the parent context
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	g.Go(func() error {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "mail_provider", app.config.MailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done() // Wait for OS signal or a failed listener

		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	app.logger.Info("stopped server")
	return nil
}
