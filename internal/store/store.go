// Package store is the persistence boundary: users, the settings singleton,
// and notifications, backed by PostgreSQL with a Redis read-through cache
// for settings.
package store

import (
	"context"
	"embed"
	"errors"
	"time"
)

// Migrations holds the embedded schema migrations, applied at boot via
// pkg/db.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// User is a registered account.
type User struct {
	CreatedAt    time.Time
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
}

// Profile is the presentation-safe projection of a User, handed to
// templates and JSON responses. It never carries credentials.
type Profile struct {
	JoinedAt time.Time `json:"joinedAt"`
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"isAdmin"`
}

// Format returns the presentation-safe projection of the user.
func (u *User) Format() *Profile {
	return &Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		JoinedAt: u.CreatedAt,
	}
}

// Settings is the site-wide settings singleton. Zero values are legal;
// display defaults are applied by the pipeline's context builder, not here.
type Settings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	SiteLink        string `json:"siteLink"`
}

// Notification is a per-user notification.
type Notification struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Message   string
	Link      string
	IsRead    bool
}

// UserStore looks up user records.
type UserStore interface {
	// Find returns the user by id, or ErrNotFound.
	Find(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the user by email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// SettingsStore reads and writes the settings singleton.
type SettingsStore interface {
	// Get always returns a settings value; a missing row yields the zero
	// value, never an error.
	Get(ctx context.Context) (Settings, error)

	// Update replaces the settings singleton.
	Update(ctx context.Context, s Settings) error
}

// NotificationStore manages per-user notifications.
type NotificationStore interface {
	// Create stores a new unread notification for a user.
	Create(ctx context.Context, userID, message, link string) (*Notification, error)

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// ListByUser returns all notifications for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)

	// MarkAllRead flags every notification for a user as read.
	MarkAllRead(ctx context.Context, userID string) error

	// DeleteRead removes read notifications older than the cutoff and
	// returns how many were deleted.
	DeleteRead(ctx context.Context, olderThan time.Time) (int64, error)
}
