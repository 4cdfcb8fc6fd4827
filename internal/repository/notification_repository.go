package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
)

// PostgresNotificationRepository implements domain.NotificationRepository
type PostgresNotificationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresNotificationRepository creates a new notification repository
func NewPostgresNotificationRepository(db *sql.DB, logger *slog.Logger) *PostgresNotificationRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a notification
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, card_id, type)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at
	`

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.CardID, n.Type).
		Scan(&n.ID, &n.Read, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// Exists reports whether a notification of the given type already exists for
// the (user, card) pair. The due-date worker uses it to stay idempotent.
func (r *PostgresNotificationRepository) Exists(ctx context.Context, userID, cardID int64, notifType string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE user_id = $1 AND card_id = $2 AND type = $3)`,
		userID, cardID, notifType,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	return exists, nil
}

// ListByUser lists a user's notifications, newest first
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, card_id, type, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.CardID, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

// MarkRead flags a notification as read, scoped to its owner
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// DeleteReadBefore prunes read notifications older than the cutoff
func (r *PostgresNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE read = true AND created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rows, nil
}
