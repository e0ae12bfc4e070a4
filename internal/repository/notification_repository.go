package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// NotificationRepository persists deferred notifications run by the dispatcher.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository instantiates a notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create stores a pending notification.
func (r *NotificationRepository) Create(ctx context.Context, exec sqlx.ExtContext, n *models.ScheduledNotification) error {
	n.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO scheduled_notifications (kind, payload, run_at, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &n.ID, query, n.Kind, n.Payload, n.RunAt, n.CreatedAt); err != nil {
		return fmt.Errorf("create scheduled notification: %w", err)
	}
	return nil
}

// ClaimDue locks up to limit pending notifications due at or before now.
// Rows locked by another dispatcher are skipped.
func (r *NotificationRepository) ClaimDue(ctx context.Context, exec sqlx.ExtContext, now time.Time, limit int) ([]models.ScheduledNotification, error) {
	const query = `SELECT id, kind, payload, run_at, dispatched_at, created_at
FROM scheduled_notifications
WHERE dispatched_at IS NULL AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`
	var due []models.ScheduledNotification
	if err := sqlx.SelectContext(ctx, r.exec(exec), &due, query, now, limit); err != nil {
		return nil, fmt.Errorf("claim due notifications: %w", err)
	}
	return due, nil
}

// MarkDispatched stamps the notifications as dispatched.
func (r *NotificationRepository) MarkDispatched(ctx context.Context, exec sqlx.ExtContext, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.exec(exec).ExecContext(ctx, `UPDATE scheduled_notifications SET dispatched_at = $2 WHERE id = ANY($1)`, pq.Array(ids), at); err != nil {
		return fmt.Errorf("mark notifications dispatched: %w", err)
	}
	return nil
}

// CancelPending drops undispatched notifications of a kind whose payload
// targets the given faculty (nil for the global window).
func (r *NotificationRepository) CancelPending(ctx context.Context, exec sqlx.ExtContext, kind string, facultyID *int64) error {
	query := `DELETE FROM scheduled_notifications WHERE dispatched_at IS NULL AND kind = $1`
	args := []interface{}{kind}
	if facultyID != nil {
		query += ` AND (payload->>'faculty_id')::bigint = $2`
		args = append(args, *facultyID)
	} else {
		query += ` AND payload->'faculty_id' = 'null'::jsonb`
	}
	if _, err := r.exec(exec).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("cancel pending notifications: %w", err)
	}
	return nil
}
