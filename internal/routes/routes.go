// Package routes holds the public-facing route modules: the home page,
// authentication, and the notifications page. Each module registers itself
// on the application router via the boot-time registry.
package routes

import (
	"github.com/xemah/battleweb/internal/app"
)

// verifyCSRF checks the submitted form token against the session token.
// On mismatch the request is bounced back to the referer with a flash error.
// Returns true when the request may proceed.
func verifyCSRF(c app.Context) (bool, error) {
	if c.Form("_csrf") == c.CSRFToken() {
		return true, nil
	}
	if err := c.SetFlash(app.FlashError, "Your session has expired. Please try again."); err != nil {
		return false, err
	}
	return false, c.Redirect(c.Referer())
}

// requireAuth redirects anonymous requests to the site root.
// Returns true when the request is authenticated.
func requireAuth(c app.Context) (bool, error) {
	if c.IsAuthenticated() {
		return true, nil
	}
	return false, c.Redirect("/")
}
