package app

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/session"
	"github.com/xemah/battleweb/pkg/validator"
	"github.com/xemah/battleweb/pkg/view"
)

// ValidationCallback receives the validation result and decides how to
// respond. When supplied to ValidateInput it runs whether validation passed
// or failed.
type ValidationCallback func(c Context, result *validator.Result) error

// Context provides request/response access and the decorated response
// operations every route handler uses. It also implements context.Context by
// delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// Form returns the form value by name.
	Form(name string) string

	// PathSegments returns the request path split on "/", without empty
	// leading/trailing segments. "/" yields an empty slice.
	PathSegments() []string

	// Referer returns the captured Referer header, defaulting to "/".
	Referer() string

	// Session returns the per-visitor session. Never nil once the pipeline
	// has run.
	Session() *session.Session

	// IsAuthenticated reports whether the session resolved to an active user.
	IsAuthenticated() bool

	// User returns the authenticated user's presentation-safe projection,
	// or nil for anonymous requests.
	User() *store.Profile

	// CSRFToken returns the session's CSRF token.
	CSRFToken() string

	// Set stores a value in the render context under the given key.
	Set(key string, value any)

	// Get retrieves a value from the render context.
	Get(key string) any

	// SetPage sets the page and title slots of the render context.
	// Handlers call this before Render.
	SetPage(page, title string)

	// SetStatus sets the HTTP status code used by the next Render or JSON
	// call. It has no effect once a response has been written.
	SetStatus(code int)

	// Render renders the named template with the accumulated render context.
	// No-op if a response has already been written.
	Render(name string) error

	// Reload redirects back to the originally requested URL.
	Reload() error

	// Redirect redirects to the given URL with HTTP 302.
	Redirect(url string) error

	// ThrowError renders the error page with the given message. The HTTP
	// status code is left unchanged unless set explicitly beforehand.
	ThrowError(message string) error

	// Throw404 sets HTTP 404 and renders the error page with the standard
	// not-found message.
	Throw404() error

	// JSON writes a structured JSON envelope. See the JSONSuccess, JSONError
	// and JSONRaw kinds.
	JSON(kind string, data any) error

	// ValidateInput validates the request's form values against the rules.
	// With no callback, a failure queues a flash error and redirects to the
	// captured referer; callers detect the short-circuit via Result.Failed().
	// With a callback, the callback is always invoked with the result.
	ValidateInput(rules validator.Rules, cb ...ValidationCallback) (*validator.Result, error)

	// SetFlash queues a one-shot flash message for the next request.
	SetFlash(key, message string) error

	// Written returns true if a response has already been written.
	Written() bool

	// Logger returns the request logger.
	Logger() *slog.Logger
}

// requestContext implements the Context interface.
type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	app      *App

	session       *session.Session
	segments      []string
	referer       string
	authenticated bool
	user          *store.Profile
	viewCtx       view.Context
	status        int
}

// newContext creates a new context with the response wrapper.
func newContext(w http.ResponseWriter, r *http.Request, a *App) *requestContext {
	return &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		app:      a,
		viewCtx:  view.Context{},
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) PathSegments() []string {
	return c.segments
}

func (c *requestContext) Referer() string {
	return c.referer
}

func (c *requestContext) Session() *session.Session {
	return c.session
}

func (c *requestContext) IsAuthenticated() bool {
	return c.authenticated
}

func (c *requestContext) User() *store.Profile {
	return c.user
}

func (c *requestContext) CSRFToken() string {
	if c.session == nil {
		return ""
	}
	return c.session.CSRFToken
}

func (c *requestContext) Set(key string, value any) {
	c.viewCtx[key] = value
}

func (c *requestContext) Get(key string) any {
	return c.viewCtx[key]
}

func (c *requestContext) SetPage(page, title string) {
	c.viewCtx["page"] = page
	c.viewCtx["title"] = title
}

func (c *requestContext) SetStatus(code int) {
	c.status = code
}

func (c *requestContext) SetFlash(key, message string) error {
	return c.app.cookies.SetFlash(c.response, key, message)
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

// ValidateInput validates the request form values (query and body) against
// the rules. The representative error message is the first failed field's
// message, in rule declaration order.
func (c *requestContext) ValidateInput(rules validator.Rules, cb ...ValidationCallback) (*validator.Result, error) {
	if err := c.request.ParseForm(); err != nil {
		return nil, err
	}

	result := validator.Validate(c.request.Form, rules)

	if len(cb) > 0 {
		return result, cb[0](c, result)
	}

	if result.Failed() {
		if err := c.SetFlash(FlashError, result.Error()); err != nil {
			return result, err
		}
		return result, c.Redirect(c.referer)
	}

	return result, nil
}

// splitPath breaks a URL path into its non-empty segments.
func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
