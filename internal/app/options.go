package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/cookie"
	"github.com/xemah/battleweb/pkg/session"
	"github.com/xemah/battleweb/pkg/view"
)

// Option configures the App during construction.
type Option func(*App)

// WithLogger sets the application logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookies sets the cookie manager used for flash messages and, unless
// WithSessions is given, the session cookie.
func WithCookies(m *cookie.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.cookies = m
		}
	}
}

// WithSessions sets the session manager.
// Defaults to a manager built on the app's cookie manager.
func WithSessions(m *session.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.sessions = m
		}
	}
}

// WithViews sets the template renderer used by Render, ThrowError and the
// 404 page.
func WithViews(r *view.Renderer) Option {
	return func(a *App) {
		if r != nil {
			a.views = r
		}
	}
}

// WithStores wires the persistent store collaborators the pipeline reads
// from. Any of them may be nil in tests.
func WithStores(users store.UserStore, settings store.SettingsStore, notifications store.NotificationStore) Option {
	return func(a *App) {
		a.users = users
		a.settings = settings
		a.notifications = notifications
	}
}

// WithMiddleware appends global middleware running after the pipeline stages
// and before every route handler.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithRoutes registers route modules. Modules load at construction time in
// the given order, each isolated against failure.
func WithRoutes(modules ...RouteModule) Option {
	return func(a *App) {
		a.routes = append(a.routes, modules...)
	}
}

// WithServices registers service modules. Services load after all route
// modules and after the catch-all 404 is installed.
func WithServices(modules ...ServiceModule) Option {
	return func(a *App) {
		a.services = append(a.services, modules...)
	}
}

// WithPanel installs the admin gate: requests whose path starts with prefix
// run the gate before normal routing proceeds. The gate halts the pipeline
// by writing a response.
func WithPanel(prefix string, gate HandlerFunc) Option {
	return func(a *App) {
		if prefix != "" && gate != nil {
			a.panelPrefix = prefix
			a.panelGate = gate
		}
	}
}

// WithStaticFiles serves the given filesystem under the URL prefix.
// Static requests bypass the request pipeline.
func WithStaticFiles(prefix string, fsys fs.FS) Option {
	return func(a *App) {
		if fsys == nil {
			return
		}
		prefix = "/" + strings.Trim(prefix, "/")
		handler := http.StripPrefix(prefix, http.FileServer(http.FS(fsys)))
		a.staticRoutes = append(a.staticRoutes, staticRoute{
			pattern: prefix + "/*",
			handler: handler,
		})
	}
}

// WithHealth enables liveness and readiness endpoints.
func WithHealth(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithErrorHandler replaces the default error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}
