package app

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing by writing a
// response, or decorate the context before the handler runs.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error)

// RouteModule declares a group of routes on the application router.
// Modules are registered at boot in the order they were passed to New;
// a failing module is logged and skipped without aborting boot.
//
// Example:
//
//	type NotificationsModule struct {
//	    notifications store.NotificationStore
//	}
//
//	func (m *NotificationsModule) Name() string { return "notifications" }
//
//	func (m *NotificationsModule) Register(r app.Router) error {
//	    r.GET("/notifications", m.showAll)
//	    r.POST("/notifications/read", m.markAllRead)
//	    return nil
//	}
type RouteModule interface {
	Name() string
	Register(r Router) error
}

// ServiceModule hooks background work into the application lifecycle.
// Services register after all route modules and typically attach startup and
// shutdown hooks via the App handle.
type ServiceModule interface {
	Name() string
	Register(a *App) error
}
