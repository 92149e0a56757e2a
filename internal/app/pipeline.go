package app

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/xemah/battleweb/internal/store"
)

// Settings fallbacks applied when the store holds no value.
const (
	defaultSiteName = "Website"
	defaultSiteLink = "//"
)

// notificationsPath is the page that already displays the full list, so the
// unread count fetch is skipped there.
const notificationsPath = "/notifications"

// runPipeline executes the fixed per-request stage order: extraction, auth
// resolution, render-context building, admin gating, then the matched
// handler. A short-circuit writes exactly one response and never invokes a
// later stage.
func (a *App) runPipeline(c *requestContext, h HandlerFunc) error {
	if err := a.extract(c); err != nil {
		return err
	}

	halted, err := a.resolveUser(c)
	if err != nil {
		return err
	}
	if halted {
		return nil
	}

	a.buildRenderContext(c)

	if a.panelGate != nil && strings.HasPrefix(c.request.URL.Path, a.panelPrefix) {
		if err := a.panelGate(c); err != nil {
			return err
		}
		if c.Written() {
			return nil
		}
	}

	return h(c)
}

// extract captures path segments and referer, loads the session, and ensures
// the CSRF token exists. It also arms the before-write hook that persists the
// session cookie whenever the session was mutated during the request.
func (a *App) extract(c *requestContext) error {
	c.segments = splitPath(c.request.URL.Path)

	c.referer = c.request.Referer()
	if c.referer == "" {
		c.referer = "/"
	}

	c.session = a.sessions.Load(c.request)
	if err := c.session.EnsureCSRFToken(); err != nil {
		return err
	}

	c.response.OnBeforeWrite(func() {
		if !c.session.IsDirty() {
			return
		}
		if err := a.sessions.Save(c.response, c.session); err != nil {
			a.logger.ErrorContext(c.request.Context(), "failed to save session", "error", err)
		}
	})

	return nil
}

// resolveUser turns the session's user id into a live user record. A stale
// or inactive record clears the session's id and redirects to the site root,
// halting the rest of the pipeline.
func (a *App) resolveUser(c *requestContext) (halted bool, err error) {
	if c.session.UserID == "" || a.users == nil {
		return false, nil
	}

	user, err := a.users.Find(c, c.session.UserID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !user.IsActive) {
		c.session.ClearUser()
		return true, c.Redirect("/")
	}
	if err != nil {
		return false, err
	}

	c.authenticated = true
	c.user = user.Format()
	return false, nil
}

// buildRenderContext assembles the mapping the template and JSON sinks
// consume: site settings with fallbacks, auth state, drained flash messages,
// unread notification count, and the CSRF token. The page and title slots are
// left for the handler to populate.
func (a *App) buildRenderContext(c *requestContext) {
	var settings store.Settings
	if a.settings != nil {
		var err error
		settings, err = a.settings.Get(c)
		if err != nil {
			a.logger.ErrorContext(c.request.Context(), "failed to load settings", "error", err)
			settings = store.Settings{}
		}
	}
	if settings.SiteName == "" {
		settings.SiteName = defaultSiteName
	}
	if settings.SiteLink == "" {
		settings.SiteLink = defaultSiteLink
	}

	c.viewCtx["siteName"] = settings.SiteName
	c.viewCtx["siteDescription"] = settings.SiteDescription
	c.viewCtx["siteLink"] = settings.SiteLink
	c.viewCtx["authenticated"] = c.authenticated
	c.viewCtx["user"] = c.user
	c.viewCtx["csrfToken"] = c.session.CSRFToken

	// Flash reads delete the cookie, so each message surfaces at most once.
	c.viewCtx[FlashSuccess] = ""
	c.viewCtx[FlashError] = ""
	if msg, err := a.cookies.Flash(c.response, c.request, FlashSuccess); err == nil {
		c.viewCtx[FlashSuccess] = msg
	}
	if msg, err := a.cookies.Flash(c.response, c.request, FlashError); err == nil {
		c.viewCtx[FlashError] = msg
	}

	c.viewCtx["notificationCount"] = 0
	if c.authenticated && c.request.URL.Path != notificationsPath && a.notifications != nil {
		count, err := a.notifications.CountUnread(c, c.user.ID)
		if err != nil {
			a.logger.ErrorContext(c.request.Context(), "failed to count notifications", "error", err)
		} else {
			c.viewCtx["notificationCount"] = count
		}
	}
}

// handleError resolves handler errors to a rendered error page. Errors after
// the response has been written can only be logged.
func (a *App) handleError(c *requestContext, err error) {
	if a.errorHandler != nil {
		a.errorHandler(c, err)
		return
	}

	a.logger.ErrorContext(c.request.Context(), "request failed",
		"error", err,
		"method", c.request.Method,
		"path", c.request.URL.Path,
	)

	if c.Written() {
		return
	}
	c.status = http.StatusInternalServerError
	if renderErr := c.ThrowError("Something went wrong. Please try again later."); renderErr != nil {
		http.Error(c.response, "Internal Server Error", http.StatusInternalServerError)
	}
}

// recoverPanic converts a handler panic into a logged error page. Panics
// never terminate the process.
func (a *App) recoverPanic(c *requestContext) {
	rec := recover()
	if rec == nil {
		return
	}

	a.logger.ErrorContext(c.request.Context(), "panic recovered",
		"panic", rec,
		"method", c.request.Method,
		"path", c.request.URL.Path,
		"stack", string(debug.Stack()),
	)

	if c.Written() {
		return
	}
	c.status = http.StatusInternalServerError
	if err := c.ThrowError("Something went wrong. Please try again later."); err != nil {
		http.Error(c.response, "Internal Server Error", http.StatusInternalServerError)
	}
}
