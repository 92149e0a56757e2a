package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSettings implements SettingsStore backed by PostgreSQL.
// The singleton lives in a single fixed row.
type PostgresSettings struct {
	pool *pgxpool.Pool
}

// NewPostgresSettings creates a settings repository on the shared pool.
func NewPostgresSettings(pool *pgxpool.Pool) *PostgresSettings {
	return &PostgresSettings{pool: pool}
}

func (r *PostgresSettings) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx,
		`SELECT site_name, site_description, site_link FROM settings WHERE id = 1`,
	).Scan(&s.SiteName, &s.SiteDescription, &s.SiteLink)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Missing row is legal: the context builder applies defaults.
			return Settings{}, nil
		}
		return Settings{}, err
	}
	return s, nil
}

func (r *PostgresSettings) Update(ctx context.Context, s Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (id, site_name, site_description, site_link)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET site_name = $1, site_description = $2, site_link = $3, updated_at = now()`,
		s.SiteName, s.SiteDescription, s.SiteLink)
	return err
}
