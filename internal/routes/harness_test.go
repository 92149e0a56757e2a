package routes_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xemah/battleweb/internal/app"
	"github.com/xemah/battleweb/internal/routes"
	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/cookie"
	"github.com/xemah/battleweb/pkg/view"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeUsers struct {
	users map[string]*store.User
}

func (f *fakeUsers) Find(_ context.Context, id string) (*store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeSettings struct {
	settings store.Settings
}

func (f *fakeSettings) Get(context.Context) (store.Settings, error) { return f.settings, nil }
func (f *fakeSettings) Update(_ context.Context, s store.Settings) error {
	f.settings = s
	return nil
}

type fakeNotifications struct {
	list         []store.Notification
	markAllCalls int
}

func (f *fakeNotifications) Create(_ context.Context, userID, message, link string) (*store.Notification, error) {
	n := store.Notification{ID: "n1", UserID: userID, Message: message, Link: link}
	f.list = append(f.list, n)
	return &n, nil
}

func (f *fakeNotifications) CountUnread(context.Context, string) (int, error) {
	n := 0
	for _, item := range f.list {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) ListByUser(context.Context, string) ([]store.Notification, error) {
	return f.list, nil
}

func (f *fakeNotifications) MarkAllRead(context.Context, string) error {
	f.markAllCalls++
	return nil
}

func (f *fakeNotifications) DeleteRead(context.Context, time.Time) (int64, error) { return 0, nil }

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

type testEnv struct {
	app           *app.App
	users         *fakeUsers
	notifications *fakeNotifications
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fsys := fstest.MapFS{
		"home.html":          &fstest.MapFile{Data: []byte("auth:{{.authenticated}}:{{.errorMessage}}")},
		"login.html":         &fstest.MapFile{Data: []byte("{{.csrfToken}}")},
		"error.html":         &fstest.MapFile{Data: []byte("error:{{.error}}")},
		"notifications.html": &fstest.MapFile{Data: []byte("{{range .notifications}}[{{.Message}}]{{end}}")},
	}
	views, err := view.New(fsys, "*.html")
	require.NoError(t, err)

	env := &testEnv{
		users:         &fakeUsers{users: map[string]*store.User{}},
		notifications: &fakeNotifications{},
	}
	env.app = app.New(
		app.WithCookies(cookie.New(cookie.WithSecret(testSecret))),
		app.WithViews(views),
		app.WithStores(env.users, &fakeSettings{}, env.notifications),
		app.WithRoutes(
			routes.NewHome(),
			routes.NewAuth(env.users),
			routes.NewNotifications(env.notifications),
		),
	)
	return env
}

// client replays cookies between requests the way a browser would.
type client struct {
	t       *testing.T
	app     *app.App
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *app.App) *client {
	return &client{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, target, referer string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.app.Router().ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, "", nil)
}

// csrfToken fetches the login page, which renders the session token.
func (c *client) csrfToken() string {
	c.t.Helper()
	rec := c.get("/login")
	require.Equal(c.t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

// sessionToken decrypts the session cookie to recover the CSRF token even
// when the login page is no longer reachable.
func (c *client) sessionToken() string {
	c.t.Helper()

	ck, ok := c.cookies["session"]
	require.True(c.t, ok, "no session cookie captured")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)

	raw, err := cookie.New(cookie.WithSecret(testSecret)).GetEncrypted(req, "session")
	require.NoError(c.t, err)

	var payload struct {
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(c.t, json.Unmarshal([]byte(raw), &payload))
	return payload.CSRFToken
}

// login authenticates the client through the real login flow.
func (c *client) login(email, password string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, "/login", "/login", url.Values{
		"_csrf":    {c.csrfToken()},
		"email":    {email},
		"password": {password},
	})
}
