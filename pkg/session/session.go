package session

import (
	"crypto/rand"
	"encoding/base64"
)

// csrfTokenBytes is the amount of entropy behind each CSRF token.
const csrfTokenBytes = 256

// Session is the client-held per-visitor state. The whole payload travels in
// an encrypted cookie; the server keeps no session store.
type Session struct {
	// UserID is the authenticated user's identifier, empty for anonymous
	// sessions.
	UserID string `json:"user_id,omitempty"`

	// CSRFToken is generated once per session lifetime and stable until the
	// session ends.
	CSRFToken string `json:"csrf_token,omitempty"`

	dirty bool
	isNew bool
}

// New creates a fresh anonymous session.
func New() *Session {
	return &Session{isNew: true, dirty: true}
}

// IsAuthenticated reports whether a user is associated with the session.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// Authenticate associates a user with the session.
func (s *Session) Authenticate(userID string) {
	if s.UserID == userID {
		return
	}
	s.UserID = userID
	s.dirty = true
}

// ClearUser removes the user association, keeping the rest of the session
// (including the CSRF token) intact.
func (s *Session) ClearUser() {
	if s.UserID == "" {
		return
	}
	s.UserID = ""
	s.dirty = true
}

// EnsureCSRFToken generates the CSRF token if the session doesn't carry one
// yet. Once set, the token is never regenerated for this session.
func (s *Session) EnsureCSRFToken() error {
	if s.CSRFToken != "" {
		return nil
	}

	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return err
	}

	s.CSRFToken = base64.StdEncoding.EncodeToString(buf)
	s.dirty = true
	return nil
}

// IsDirty reports whether the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as persisted.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// IsNew reports whether the session was created during this request rather
// than loaded from a cookie.
func (s *Session) IsNew() bool {
	return s.isNew
}
