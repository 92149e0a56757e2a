package routes

import (
	"github.com/xemah/battleweb/internal/app"
	"github.com/xemah/battleweb/internal/store"
)

// Notifications serves the notifications page.
type Notifications struct {
	notifications store.NotificationStore
}

// NewNotifications creates the notifications route module.
func NewNotifications(notifications store.NotificationStore) *Notifications {
	return &Notifications{notifications: notifications}
}

func (h *Notifications) Name() string { return "notifications" }

func (h *Notifications) Register(r app.Router) error {
	r.GET("/notifications", h.showAll)
	r.POST("/notifications/read", h.markAllRead)
	return nil
}

func (h *Notifications) showAll(c app.Context) error {
	if ok, err := requireAuth(c); !ok {
		return err
	}

	list, err := h.notifications.ListByUser(c, c.User().ID)
	if err != nil {
		return err
	}

	c.Set("notifications", list)
	c.SetPage("notifications", "Notifications")
	return c.Render("notifications")
}

func (h *Notifications) markAllRead(c app.Context) error {
	if ok, err := requireAuth(c); !ok {
		return err
	}
	if ok, err := verifyCSRF(c); !ok {
		return err
	}

	if err := h.notifications.MarkAllRead(c, c.User().ID); err != nil {
		return err
	}
	return c.Reload()
}
