// Package app wires configuration, stores and services into a gin engine.
// Both the long-running server and the serverless entrypoint use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sweetshop/internal/config"
	"sweetshop/internal/database"
	"sweetshop/internal/handlers"
	"sweetshop/internal/logger"
	"sweetshop/internal/metrics"
	"sweetshop/internal/services"
	"sweetshop/internal/session"
	"sweetshop/web"
)

// App is a ready-to-serve shop.
type App struct {
	Engine   *gin.Engine
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	closers []func() error
}

// Options overrides parts of the wiring, mostly for tests.
type Options struct {
	// Templates replaces the embedded templates and SWEETSHOP_TEMPLATE_DIR.
	Templates fs.FS
	// Picker replaces the random product picker.
	Picker services.Picker
	// Mailer replaces the SMTP notifier.
	Mailer interface {
		services.OrderNotifier
		services.MessageNotifier
	}
}

// New opens the stores and builds the router.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logg}

	db, err := database.NewDatabase(cfg.Data.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	if cfg.Data.Seed {
		if err := db.Seed(); err != nil {
			return nil, fmt.Errorf("seed document: %w", err)
		}
	}
	messages, err := database.NewMessageStore(cfg.Data.MessagesPath)
	if err != nil {
		return nil, fmt.Errorf("open message store: %w", err)
	}
	if err := os.MkdirAll(cfg.Data.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	sessions, err := a.sessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	shopMetrics := metrics.NewShopMetrics(a.Registry)

	mailer := opts.Mailer
	if mailer == nil {
		mailer = services.NewEmailService(cfg.SMTP, logg)
	}
	security := services.NewSecurityLogger(logg)

	h := handlers.NewHandler(handlers.Deps{
		DB:      db,
		Cart:    services.NewCartService(db, opts.Picker, logg, shopMetrics),
		Orders:  services.NewOrderService(services.OrderServiceParams{DB: db, Notifier: mailer, Logger: logg, Metrics: shopMetrics}),
		Admin:   services.NewAdminService(db, logg),
		Reports: services.NewReportService(db),
		Messages: services.NewMessageService(services.MessageServiceParams{
			Repo:     messages,
			Security: security,
			Notifier: mailer,
			Logger:   logg,
			Metrics:  shopMetrics,
		}),
		Auth:      services.NewAdminAuthenticator(cfg.Admin),
		Security:  security,
		Sessions:  sessions,
		Logger:    logg,
		UploadDir: cfg.Data.UploadDir,
		Cookie: handlers.CookieOptions{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		},
	})

	templates := opts.Templates
	if templates == nil {
		templates = web.Templates()
		if cfg.App.TemplateDir != "" {
			templates = os.DirFS(cfg.App.TemplateDir)
		}
	}
	renderer, err := handlers.NewHTMLRenderer(templates)
	if err != nil {
		return nil, err
	}

	a.Engine = NewRouter(cfg, logg, h, renderer, a.Registry)
	return a, nil
}

func (a *App) sessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if !strings.EqualFold(cfg.Session.Store, config.SessionStoreRedis) {
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
	client, err := session.Connect(ctx, cfg.Redis.URL, cfg.Redis.DialTimeout)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return session.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Session.TTL), nil
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
