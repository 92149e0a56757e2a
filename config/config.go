// Package config loads application configuration from an optional YAML file
// with environment-variable overrides. Secrets and connection strings come
// from the environment only.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/xemah/battleweb/pkg/db"
	"github.com/xemah/battleweb/pkg/logger"
)

// DefaultPort is used when neither the environment nor the config file sets
// a listening port.
const DefaultPort = 3000

// Config is the full application configuration.
type Config struct {
	// AppEnv selects deployment behavior such as the Secure cookie flag.
	AppEnv string `yaml:"app_env" env:"APP_ENV"`

	// Port is the listening port. Resolution order: PORT environment
	// variable, config file, DefaultPort.
	Port int `yaml:"port"`

	// CookieSecret keys cookie signing and encryption. At least 32 bytes.
	CookieSecret string `yaml:"-" env:"COOKIE_SECRET,required"`

	// RedisURL connects the settings cache.
	RedisURL string `yaml:"-" env:"REDIS_URL,default=redis://localhost:6379/0"`

	Database db.Config           `yaml:"-"`
	Sentry   logger.SentryConfig `yaml:"-"`
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		AppEnv: "development",
		Port:   DefaultPort,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No config file is fine, the environment carries everything.
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: decode environment: %w", err)
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
