package app

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/cookie"
	"github.com/xemah/battleweb/pkg/health"
	"github.com/xemah/battleweb/pkg/logger"
	"github.com/xemah/battleweb/pkg/session"
	"github.com/xemah/battleweb/pkg/view"
)

// App orchestrates the application lifecycle: the request pipeline, the
// module registry, and graceful shutdown. App is immutable after creation,
// all configuration happens via New.
type App struct {
	router   chi.Router
	logger   *slog.Logger
	cookies  *cookie.Manager
	sessions *session.Manager
	views    *view.Renderer

	users         store.UserStore
	settings      store.SettingsStore
	notifications store.NotificationStore

	middlewares  []Middleware
	routes       []RouteModule
	services     []ServiceModule
	staticRoutes []staticRoute
	healthConfig *healthConfig
	errorHandler ErrorHandler

	panelPrefix string
	panelGate   HandlerFunc

	startupHooks  []func(context.Context) error
	shutdownHooks []func(context.Context) error
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options and loads all
// registered modules.
//
// Example:
//
//	a := app.New(
//	    app.WithLogger(log),
//	    app.WithStores(users, settings, notifications),
//	    app.WithRoutes(
//	        routes.NewHome(renderer),
//	        routes.NewNotifications(notifications),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:  chi.NewRouter(),
		logger:  logger.NewNope(),
		cookies: cookie.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.sessions == nil {
		a.sessions = session.NewManager(a.cookies)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Notifications returns the notification store, nil if not configured.
func (a *App) Notifications() store.NotificationStore {
	return a.notifications
}

// OnStartup registers a hook that runs before the server accepts
// connections. Service modules use this to start background work.
func (a *App) OnStartup(fn func(context.Context) error) {
	if fn != nil {
		a.startupHooks = append(a.startupHooks, fn)
	}
}

// OnShutdown registers a cleanup hook that runs during graceful shutdown.
func (a *App) OnShutdown(fn func(context.Context) error) {
	if fn != nil {
		a.shutdownHooks = append(a.shutdownHooks, fn)
	}
}

// setupRoutes mounts static files and health endpoints, loads route modules,
// installs the catch-all 404, then loads service modules. Routes load fully
// before the catch-all and before any service.
func (a *App) setupRoutes() {
	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, m := range a.routes {
		a.loadModule("route", m.Name(), func() error { return m.Register(r) })
	}

	a.router.NotFound(a.wrapHandler(func(c Context) error {
		return c.Throw404()
	}))

	for _, m := range a.services {
		a.loadModule("service", m.Name(), func() error { return m.Register(a) })
	}
}

// loadModule invokes one module registration with failure isolation: an
// error or panic is logged with the module's identity and loading continues.
// No partial state from a failed module is rolled back.
func (a *App) loadModule(kind, name string, register func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("module registration panicked",
				"kind", kind,
				"module", name,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := register(); err != nil {
		a.logger.Error("module registration failed",
			"kind", kind,
			"module", name,
			"error", err,
		)
		return
	}

	a.logger.Debug("module registered", "kind", kind, "module", name)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
