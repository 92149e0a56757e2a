// Package redis manages the Redis client used by the settings cache.
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Errors.
var (
	ErrParseURL = errors.New("redis: failed to parse connection URL")
	ErrConnect  = errors.New("redis: failed to connect")
)

// Open creates a Redis client from a connection URL and verifies the
// connection with a ping.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrParseURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrConnect, err)
	}

	return client, nil
}

// Healthcheck returns a readiness check function for the client.
func Healthcheck(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// Shutdown returns a shutdown hook that closes the client.
func Shutdown(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Close()
	}
}
