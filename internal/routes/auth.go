package routes

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/xemah/battleweb/internal/app"
	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/validator"
)

// Auth serves the login form and handles login/logout.
type Auth struct {
	users store.UserStore
}

// NewAuth creates the auth route module.
func NewAuth(users store.UserStore) *Auth {
	return &Auth{users: users}
}

func (h *Auth) Name() string { return "auth" }

func (h *Auth) Register(r app.Router) error {
	r.GET("/login", h.showLogin)
	r.POST("/login", h.handleLogin)
	r.POST("/logout", h.handleLogout)
	return nil
}

func (h *Auth) showLogin(c app.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect("/")
	}
	c.SetPage("login", "Log in")
	return c.Render("login")
}

func (h *Auth) handleLogin(c app.Context) error {
	if ok, err := verifyCSRF(c); !ok {
		return err
	}

	result, err := c.ValidateInput(validator.Rules{
		{Field: "email", Expr: "required|email"},
		{Field: "password", Expr: "required"},
	})
	if err != nil || result.Failed() {
		return err
	}

	user, err := h.users.FindByEmail(c, result.Value("email"))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if user == nil || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(result.Value("password"))) != nil {
		if err := c.SetFlash(app.FlashError, "Invalid email or password."); err != nil {
			return err
		}
		return c.Redirect(c.Referer())
	}

	c.Session().Authenticate(user.ID)
	return c.Redirect("/")
}

func (h *Auth) handleLogout(c app.Context) error {
	if ok, err := verifyCSRF(c); !ok {
		return err
	}
	c.Session().ClearUser()
	return c.Redirect("/")
}
