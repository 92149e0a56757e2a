package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xemah/battleweb/pkg/cookie"
)

// Default session cookie configuration.
const (
	defaultCookieName = "session"
	defaultMaxAge     = 86400 * 7 // 7 days
)

// ErrNoSecret is returned when the cookie manager has no secret configured.
var ErrNoSecret = cookie.ErrNoSecret

// Manager moves sessions between requests and responses through an encrypted
// cookie. A missing, expired, or undecryptable cookie yields a fresh
// anonymous session rather than an error.
type Manager struct {
	cookies    *cookie.Manager
	cookieName string
	maxAge     int
}

// Option configures the Manager.
type Option func(*Manager)

// WithCookieName sets the session cookie name. Defaults to "session".
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithMaxAge sets the session cookie max age in seconds. Defaults to 7 days.
func WithMaxAge(seconds int) Option {
	return func(m *Manager) {
		if seconds > 0 {
			m.maxAge = seconds
		}
	}
}

// NewManager creates a session Manager on top of the given cookie manager.
func NewManager(cookies *cookie.Manager, opts ...Option) *Manager {
	m := &Manager{
		cookies:    cookies,
		cookieName: defaultCookieName,
		maxAge:     defaultMaxAge,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load decodes the session from the request cookie.
// Any decode failure falls back to a fresh anonymous session: a garbage
// cookie is indistinguishable from no cookie at all.
func (m *Manager) Load(r *http.Request) *Session {
	raw, err := m.cookies.GetEncrypted(r, m.cookieName)
	if err != nil {
		return New()
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return New()
	}

	return &s
}

// Save writes the session back to the response cookie and clears the dirty
// flag. Saving refreshes the cookie's max age.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if err := m.cookies.SetEncrypted(w, m.cookieName, string(payload), m.maxAge); err != nil {
		return err
	}

	s.ClearDirty()
	return nil
}

// Destroy removes the session cookie entirely.
func (m *Manager) Destroy(w http.ResponseWriter) {
	m.cookies.Delete(w, m.cookieName)
}

// IsNoSecret reports whether err indicates a missing cookie secret.
func IsNoSecret(err error) bool {
	return errors.Is(err, cookie.ErrNoSecret)
}
