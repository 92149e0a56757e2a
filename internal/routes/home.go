package routes

import (
	"github.com/xemah/battleweb/internal/app"
)

// Home serves the landing page.
type Home struct{}

// NewHome creates the home route module.
func NewHome() *Home {
	return &Home{}
}

func (h *Home) Name() string { return "home" }

func (h *Home) Register(r app.Router) error {
	r.GET("/", h.show)
	return nil
}

func (h *Home) show(c app.Context) error {
	title, _ := c.Get("siteName").(string)
	c.SetPage("home", title)
	return c.Render("home")
}
