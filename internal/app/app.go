package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athena-eo/observatory/internal/config"
	"github.com/athena-eo/observatory/internal/content"
	httpcontroller "github.com/athena-eo/observatory/internal/controller/http"
	"github.com/athena-eo/observatory/internal/database"
	analyticsdao "github.com/athena-eo/observatory/internal/domain/analytics/dao"
	analyticsentity "github.com/athena-eo/observatory/internal/domain/analytics/entity"
	analyticspolicy "github.com/athena-eo/observatory/internal/domain/analytics/policy"
	"github.com/athena-eo/observatory/internal/domain/analytics/scheduler"
	analyticsservice "github.com/athena-eo/observatory/internal/domain/analytics/service"
	blogdao "github.com/athena-eo/observatory/internal/domain/blog/dao"
	blogpolicy "github.com/athena-eo/observatory/internal/domain/blog/policy"
	blogservice "github.com/athena-eo/observatory/internal/domain/blog/service"
	electiondao "github.com/athena-eo/observatory/internal/domain/election/dao"
	electionpolicy "github.com/athena-eo/observatory/internal/domain/election/policy"
	electionservice "github.com/athena-eo/observatory/internal/domain/election/service"
	newsletterdao "github.com/athena-eo/observatory/internal/domain/newsletter/dao"
	newsletterpolicy "github.com/athena-eo/observatory/internal/domain/newsletter/policy"
	newsletterservice "github.com/athena-eo/observatory/internal/domain/newsletter/service"
	resourcedao "github.com/athena-eo/observatory/internal/domain/resource/dao"
	resourcepolicy "github.com/athena-eo/observatory/internal/domain/resource/policy"
	resourceservice "github.com/athena-eo/observatory/internal/domain/resource/service"
	"github.com/athena-eo/observatory/internal/fallback"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
	"github.com/athena-eo/observatory/internal/storage"
	"github.com/athena-eo/observatory/internal/web"
)

const shutdownTimeout = 10 * time.Second

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	// Infrastructure
	client *backend.Client
	pool   *pgxpool.Pool
	files  *storage.S3Storage

	// Domain policies (interfaces for HTTP handlers)
	electionPolicy   *electionpolicy.Policy
	blogPolicy       *blogpolicy.Policy
	resourcePolicy   *resourcepolicy.Policy
	newsletterPolicy *newsletterpolicy.Policy
	analyticsPolicy  *analyticspolicy.Policy

	// blogService backs the startup listing check, which must not fall back
	blogService *blogservice.Service

	site      *web.Site
	readiness *Readiness

	// Scheduler for analytics retention cleanup
	scheduler *scheduler.Scheduler
}

// Option customizes the application container
type Option func(*App)

// WithLogger replaces the default JSON logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	app := &App{
		cfg: cfg,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
		readiness: &Readiness{},
	}
	for _, opt := range opts {
		opt(app)
	}

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))
	app.router = r

	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	if err := app.initDomains(); err != nil {
		app.Close()
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	if err := app.registerRoutes(); err != nil {
		app.Close()
		return nil, fmt.Errorf("registering routes: %w", err)
	}

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Analytics.CleanupEnabled {
		app.scheduler = scheduler.New(app.analyticsPolicy, cfg.Analytics.CleanupInterval, app.logger)
	}

	return app, nil
}

// initInfrastructure connects the backend client, database and object storage
func (a *App) initInfrastructure(ctx context.Context) error {
	// the newsletter mailer always goes through the hosted backend
	a.client = backend.New(
		backend.WithBaseURL(a.cfg.Backend.BaseURL),
		backend.WithToken(a.cfg.Backend.Token),
		backend.WithTimeout(a.cfg.Backend.Timeout),
	)

	if a.cfg.Backend.Driver == config.DriverPostgres {
		pool, err := database.NewPostgresPool(ctx, a.cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("migrating postgres: %w", err)
		}
		a.pool = pool
	}

	if a.cfg.S3.Enabled() {
		a.files = storage.NewS3Storage(a.cfg.S3)
	} else {
		a.logger.Warn("object storage not configured, PDF uploads disabled")
	}

	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains() error {
	fb, err := fallback.Load()
	if err != nil {
		return fmt.Errorf("loading fallback content: %w", err)
	}
	renderer := content.NewRenderer()

	var (
		electionRepo   electionservice.ElectionRepository
		postRepo       blogservice.PostRepository
		resourceRepo   resourceservice.ResourceRepository
		subscriberRepo newsletterservice.SubscriberRepository
		eventRepo      analyticsservice.EventRepository
	)
	if a.pool != nil {
		electionRepo = electiondao.NewElectionPostgres(a.pool)
		postRepo = blogdao.NewPostPostgres(a.pool)
		resourceRepo = resourcedao.NewResourcePostgres(a.pool)
		subscriberRepo = newsletterdao.NewSubscriberPostgres(a.pool)
		eventRepo = analyticsdao.NewEventPostgres(a.pool)
	} else {
		electionRepo = electiondao.NewElectionUpstream(a.client)
		postRepo = blogdao.NewPostUpstream(a.client)
		resourceRepo = resourcedao.NewResourceUpstream(a.client)
		subscriberRepo = newsletterdao.NewSubscriberUpstream(a.client)
		eventRepo = analyticsdao.NewEventUpstream(a.client)
	}
	mailer := newsletterdao.NewSubscriberUpstream(a.client)

	// a nil *S3Storage must not become a non-nil interface
	var files resourceservice.ObjectStore
	if a.files != nil {
		files = a.files
	}

	a.blogService = blogservice.New(postRepo, renderer)

	a.electionPolicy = electionpolicy.New(electionservice.New(electionRepo), fb, a.logger)
	a.blogPolicy = blogpolicy.New(a.blogService, fb, a.logger)
	a.resourcePolicy = resourcepolicy.New(resourceservice.New(resourceRepo, files), fb, a.logger)
	a.newsletterPolicy = newsletterpolicy.New(newsletterservice.New(subscriberRepo, mailer), a.logger)
	a.analyticsPolicy = analyticspolicy.New(analyticsservice.New(eventRepo, a.cfg.Analytics.RetentionDays), a.logger)

	site, err := web.NewSite(a.cfg.Site, web.Deps{
		Election:   a.electionPolicy,
		Blog:       a.blogPolicy,
		Resources:  a.resourcePolicy,
		Newsletter: a.newsletterPolicy,
		Tracker:    a.analyticsPolicy,
		Sanitizer:  renderer,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("creating site: %w", err)
	}
	a.site = site

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() error {
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	swaggerHandler, err := httpcontroller.NewSwaggerHandler("Athena Election Observatory API", httpcontroller.OpenAPISpec)
	if err != nil {
		return err
	}
	swaggerHandler.RegisterRoutes(a.router)

	handlers := []interface {
		RegisterRoutes(chi.Router)
		RegisterAdminRoutes(chi.Router)
	}{
		httpcontroller.NewElectionHandler(a.electionPolicy),
		httpcontroller.NewBlogHandler(a.blogPolicy),
		httpcontroller.NewResourceHandler(a.resourcePolicy),
		httpcontroller.NewNewsletterHandler(a.newsletterPolicy),
		httpcontroller.NewAnalyticsHandler(a.analyticsPolicy, a.cfg.Site.SecureCookies),
	}

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		for _, h := range handlers {
			h.RegisterRoutes(r)
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(httpcontroller.AdminAuth(a.cfg.Admin.Token))
			for _, h := range handlers {
				h.RegisterAdminRoutes(r)
			}
		})
	})

	// Public site
	a.site.RegisterRoutes(a.router)

	return nil
}

// Router returns the root HTTP handler
func (a *App) Router() http.Handler {
	return a.router
}

// Logger returns the application logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// CleanupAnalytics runs one analytics retention cleanup
func (a *App) CleanupAnalytics(ctx context.Context) (*analyticsentity.CleanupResult, error) {
	return a.analyticsPolicy.Cleanup(ctx)
}

// healthHandler handles liveness requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Startup checks never block serving; their outcome is reported by /readyz
	checksDone := make(chan struct{})
	go func() {
		defer close(checksDone)
		if err := a.Check(runCtx); err != nil {
			a.logger.Warn("startup checks failed, serving fallback content", "error", err)
			return
		}
		a.logger.Info("startup checks passed")
	}()

	if a.scheduler != nil {
		a.scheduler.Start(runCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case err := <-errCh:
		serveErr = fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// the checks use the pool, which Shutdown closes
	cancel()
	<-checksDone

	if err := a.Shutdown(context.Background()); err != nil && serveErr == nil {
		return err
	}
	return serveErr
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := a.httpServer.Shutdown(shutdownCtx)

	// page views still being recorded
	a.site.Wait()
	a.Close()

	if err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}

// Close releases infrastructure connections
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
