// Package panel is the privileged administration area. Its Gate runs for
// every request under /panel before routing proceeds; its route module
// registers the panel pages themselves.
package panel

import (
	"errors"

	"github.com/xemah/battleweb/internal/app"
	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/validator"
)

// Prefix is the reserved privileged path prefix.
const Prefix = "/panel"

// Panel bundles the admin gate and the panel routes.
type Panel struct {
	settings      store.SettingsStore
	users         store.UserStore
	notifications store.NotificationStore
}

// New creates the panel module.
func New(settings store.SettingsStore, users store.UserStore, notifications store.NotificationStore) *Panel {
	return &Panel{settings: settings, users: users, notifications: notifications}
}

func (p *Panel) Name() string { return "panel" }

// Gate is the admin gate installed via app.WithPanel. Non-admin requests
// under the prefix see the 404 page: the panel's existence is not revealed.
func (p *Panel) Gate(c app.Context) error {
	if u := c.User(); u == nil || !u.IsAdmin {
		return c.Throw404()
	}
	return nil
}

func (p *Panel) Register(r app.Router) error {
	r.Route(Prefix, func(r app.Router) {
		r.GET("/", p.showDashboard)
		r.GET("/settings", p.showSettings)
		r.POST("/settings", p.updateSettings)
		r.POST("/notify", p.sendNotification)
	})
	return nil
}

func (p *Panel) showDashboard(c app.Context) error {
	c.SetPage("panel", "Panel")
	return c.Render("panel")
}

func (p *Panel) showSettings(c app.Context) error {
	settings, err := p.settings.Get(c)
	if err != nil {
		return err
	}

	c.Set("settings", settings)
	c.SetPage("panel_settings", "Site settings")
	return c.Render("panel_settings")
}

// verifyCSRF bounces form posts whose token does not match the session.
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

func (p *Panel) updateSettings(c app.Context) error {
	if ok, err := verifyCSRF(c); !ok {
		return err
	}

	result, err := c.ValidateInput(validator.Rules{
		{Field: "siteName", Expr: "required"},
		{Field: "siteLink", Expr: "required"},
	})
	if err != nil || result.Failed() {
		return err
	}

	err = p.settings.Update(c, store.Settings{
		SiteName:        result.Value("siteName"),
		SiteDescription: result.Value("siteDescription"),
		SiteLink:        result.Value("siteLink"),
	})
	if err != nil {
		return err
	}

	if err := c.SetFlash(app.FlashSuccess, "Settings saved."); err != nil {
		return err
	}
	return c.Redirect("/panel/settings")
}

// sendNotification delivers an admin-authored notification to the user
// behind the given email address.
func (p *Panel) sendNotification(c app.Context) error {
	if ok, err := verifyCSRF(c); !ok {
		return err
	}

	result, err := c.ValidateInput(validator.Rules{
		{Field: "email", Expr: "required|email"},
		{Field: "message", Expr: "required|max:500"},
	})
	if err != nil || result.Failed() {
		return err
	}

	user, err := p.users.FindByEmail(c, result.Value("email"))
	if errors.Is(err, store.ErrNotFound) {
		if err := c.SetFlash(app.FlashError, "No user with that email address."); err != nil {
			return err
		}
		return c.Redirect(c.Referer())
	}
	if err != nil {
		return err
	}

	if _, err := p.notifications.Create(c, user.ID, result.Value("message"), result.Value("link")); err != nil {
		return err
	}

	if err := c.SetFlash(app.FlashSuccess, "Notification sent."); err != nil {
		return err
	}
	return c.Redirect(c.Referer())
}
