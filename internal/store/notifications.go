package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresNotifications implements NotificationStore backed by PostgreSQL.
type PostgresNotifications struct {
	pool *pgxpool.Pool
}

// NewPostgresNotifications creates a notification repository on the shared pool.
func NewPostgresNotifications(pool *pgxpool.Pool) *PostgresNotifications {
	return &PostgresNotifications{pool: pool}
}

func (r *PostgresNotifications) Create(ctx context.Context, userID, message, link string) (*Notification, error) {
	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, message, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, false, $5)`,
		n.ID, n.UserID, n.Message, n.Link, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *PostgresNotifications) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID,
	).Scan(&n)
	return n, err
}

func (r *PostgresNotifications) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Notification, error) {
		var n Notification
		err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt)
		return n, err
	})
}

func (r *PostgresNotifications) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	return err
}

func (r *PostgresNotifications) DeleteRead(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE is_read AND created_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
