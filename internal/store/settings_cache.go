package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	settingsCacheKey = "settings:singleton"
	settingsCacheTTL = 5 * time.Minute
)

// SettingsCacheBackend is the subset of redis.Cmdable the cache needs.
type SettingsCacheBackend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedSettings is a read-through Redis cache in front of a SettingsStore.
// Settings are read on every request by the context builder, so cache
// failures fall through to the inner store rather than failing the request.
type CachedSettings struct {
	rdb    SettingsCacheBackend
	inner  SettingsStore
	logger *slog.Logger
	sf     singleflight.Group
}

// NewCachedSettings wraps a settings store with Redis caching.
func NewCachedSettings(rdb SettingsCacheBackend, inner SettingsStore, logger *slog.Logger) *CachedSettings {
	return &CachedSettings{rdb: rdb, inner: inner, logger: logger}
}

func (c *CachedSettings) Get(ctx context.Context) (Settings, error) {
	data, err := c.rdb.Get(ctx, settingsCacheKey).Bytes()
	if err == nil {
		var s Settings
		if err := json.Unmarshal(data, &s); err == nil {
			return s, nil
		}
		c.logger.WarnContext(ctx, "unreadable settings cache entry, falling through")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "settings cache read failed, falling through", "error", err)
	}

	// Singleflight collapses concurrent misses into one store query.
	v, err, _ := c.sf.Do(settingsCacheKey, func() (any, error) {
		s, err := c.inner.Get(ctx)
		if err != nil {
			return Settings{}, err
		}

		// Best-effort cache population.
		if encoded, err := json.Marshal(s); err == nil {
			if err := c.rdb.Set(ctx, settingsCacheKey, encoded, settingsCacheTTL).Err(); err != nil {
				c.logger.WarnContext(ctx, "failed to populate settings cache", "error", err)
			}
		}

		return s, nil
	})
	if err != nil {
		return Settings{}, err
	}

	return v.(Settings), nil
}

func (c *CachedSettings) Update(ctx context.Context, s Settings) error {
	if err := c.inner.Update(ctx, s); err != nil {
		return err
	}

	// Invalidate so the next read sees the new value immediately.
	if err := c.rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate settings cache", "error", err)
	}

	return nil
}
