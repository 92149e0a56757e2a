package app

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router is the interface route modules use to declare routes.
// Route precedence follows chi's path-pattern trie: the most specific
// pattern wins regardless of registration order.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware)

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc, mw ...Middleware)

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// Route creates a route group with a pattern prefix.
	// All routes defined inside fn share the pattern prefix.
	Route(pattern string, fn func(r Router))

	// Group creates an inline route group without a pattern prefix.
	Group(fn func(r Router))

	// Mount attaches a plain http.Handler at the given pattern.
	// Mounted handlers bypass the request pipeline.
	Mount(pattern string, h http.Handler)
}

// routerAdapter wraps chi.Router to implement the Router interface.
type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.app.wrapHandler(h, mw...))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Post(path, r.app.wrapHandler(h, mw...))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Put(path, r.app.wrapHandler(h, mw...))
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Patch(path, r.app.wrapHandler(h, mw...))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Delete(path, r.app.wrapHandler(h, mw...))
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

// wrapHandler converts a HandlerFunc into an http.HandlerFunc that runs the
// full request pipeline. Route middleware applies innermost, then global
// middleware, so the execution order is pipeline stages, global middleware,
// route middleware, handler.
func (a *App) wrapHandler(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	// Apply route middleware in reverse so the first registered runs first.
	slices.Reverse(mw)
	for _, m := range mw {
		h = m(h)
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}

	return func(w http.ResponseWriter, req *http.Request) {
		c := newContext(w, req, a)
		defer a.recoverPanic(c)
		if err := a.runPipeline(c, h); err != nil {
			a.handleError(c, err)
		}
	}
}
