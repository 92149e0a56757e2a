package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xemah/battleweb/pkg/cookie"
	"github.com/xemah/battleweb/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(cookie.New(cookie.WithSecret(testSecret)))
}

// replay builds a request carrying the cookies written to w.
func replay(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestEnsureCSRFToken(t *testing.T) {
	t.Parallel()

	t.Run("generated once", func(t *testing.T) {
		t.Parallel()

		s := session.New()
		require.NoError(t, s.EnsureCSRFToken())
		token := s.CSRFToken
		require.NotEmpty(t, token)

		// Subsequent calls never regenerate.
		require.NoError(t, s.EnsureCSRFToken())
		assert.Equal(t, token, s.CSRFToken)
	})

	t.Run("distinct sessions get distinct tokens", func(t *testing.T) {
		t.Parallel()

		a, b := session.New(), session.New()
		require.NoError(t, a.EnsureCSRFToken())
		require.NoError(t, b.EnsureCSRFToken())
		assert.NotEqual(t, a.CSRFToken, b.CSRFToken)
	})
}

func TestDirtyTracking(t *testing.T) {
	t.Parallel()

	s := session.New()
	assert.True(t, s.IsDirty(), "fresh sessions need an initial save")

	s.ClearDirty()
	s.Authenticate("u1")
	assert.True(t, s.IsDirty())

	s.ClearDirty()
	s.Authenticate("u1") // no change
	assert.False(t, s.IsDirty())

	s.ClearUser()
	assert.True(t, s.IsDirty())
	assert.False(t, s.IsAuthenticated())
}

func TestManagerRoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	s := session.New()
	s.Authenticate("u1")
	require.NoError(t, s.EnsureCSRFToken())

	w := httptest.NewRecorder()
	require.NoError(t, m.Save(w, s))
	assert.False(t, s.IsDirty())

	loaded := m.Load(replay(w))
	assert.Equal(t, "u1", loaded.UserID)
	assert.Equal(t, s.CSRFToken, loaded.CSRFToken)
	assert.False(t, loaded.IsNew())
}

func TestManagerLoadFallbacks(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	t.Run("no cookie yields fresh session", func(t *testing.T) {
		t.Parallel()
		s := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, s.IsNew())
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("tampered cookie yields fresh session", func(t *testing.T) {
		t.Parallel()

		s := session.New()
		s.Authenticate("u1")
		w := httptest.NewRecorder()
		require.NoError(t, m.Save(w, s))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		c := w.Result().Cookies()[0]
		c.Value = "garbage" + c.Value
		r.AddCookie(c)

		loaded := m.Load(r)
		assert.True(t, loaded.IsNew())
		assert.Empty(t, loaded.UserID)
	})
}

func TestManagerDestroy(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	w := httptest.NewRecorder()
	m.Destroy(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
