// Package services holds the background service modules loaded after all
// route modules at boot.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xemah/battleweb/internal/app"
	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/logger"
)

// Cleanup purges read notifications on a schedule so the notifications
// table does not grow without bound.
type Cleanup struct {
	notifications store.NotificationStore
	schedule      string
	retention     time.Duration
	log           *slog.Logger
	cron          *cron.Cron
}

// CleanupOption configures the cleanup service.
type CleanupOption func(*Cleanup)

// WithSchedule sets the cron schedule. Defaults to "@daily".
func WithSchedule(spec string) CleanupOption {
	return func(c *Cleanup) {
		if spec != "" {
			c.schedule = spec
		}
	}
}

// WithRetention sets how long read notifications are kept.
// Defaults to 30 days.
func WithRetention(d time.Duration) CleanupOption {
	return func(c *Cleanup) {
		if d > 0 {
			c.retention = d
		}
	}
}

// NewCleanup creates the notification cleanup service.
func NewCleanup(notifications store.NotificationStore, opts ...CleanupOption) *Cleanup {
	c := &Cleanup{
		notifications: notifications,
		schedule:      "@daily",
		retention:     30 * 24 * time.Hour,
		log:           logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (s *Cleanup) Name() string { return "cleanup" }

func (s *Cleanup) Register(a *app.App) error {
	s.log = a.Logger()

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.purge(ctx)
	})
	if err != nil {
		return err
	}

	a.OnStartup(func(context.Context) error {
		s.cron.Start()
		return nil
	})
	a.OnShutdown(func(ctx context.Context) error {
		stopped := s.cron.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
		return nil
	})
	return nil
}

// purge deletes read notifications older than the retention cutoff.
func (s *Cleanup) purge(ctx context.Context) {
	deleted, err := s.notifications.DeleteRead(ctx, time.Now().Add(-s.retention))
	if err != nil {
		s.log.ErrorContext(ctx, "notification cleanup failed", "error", err)
		return
	}
	s.log.InfoContext(ctx, "notification cleanup completed", "deleted", deleted)
}
