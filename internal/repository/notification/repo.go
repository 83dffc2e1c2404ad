package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/TimeBox-aste/obo-space-web/internal/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository provides methods to interact with the notifications and
// statuses tables.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// PendingDeliveries returns the ids of all notifications awaiting delivery:
// status "pending" and attempts below the ceiling.
func (r *Repository) PendingDeliveries(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT n.id
		FROM notifications n
		JOIN statuses s ON s.id = n.id_status
		WHERE s.name = 'pending' AND n.attempts < n.max_attempts;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending notifications: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeliveryByID fetches a notification joined with its owning shared copy and
// user. Delivery tasks call it at start for a fresh read, since time has
// elapsed since polling.
func (r *Repository) DeliveryByID(ctx context.Context, id uuid.UUID) (model.Delivery, error) {
	query := `
		SELECT n.id, s.name, n.attempts, n.max_attempts, u.email, c.token
		FROM notifications n
		JOIN statuses s ON s.id = n.id_status
		JOIN copy_shared c ON c.id = n.id_copy_shared
		JOIN users u ON u.id = c.id_user
		WHERE n.id = $1;
    `

	var d model.Delivery
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(
		&d.NotificationID, &d.Status, &d.Attempts, &d.MaxAttempts, &d.Email, &d.Token,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Delivery{}, ErrNotificationNotFound
		}

		return model.Delivery{}, fmt.Errorf("failed to get delivery: %w", err)
	}

	return d, nil
}

// MarkSuccess moves a notification to the terminal "success" status and
// records the sent timestamp. Only pending notifications are updated, so a
// notification already in a terminal state stays untouched.
func (r *Repository) MarkSuccess(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE notifications
		SET id_status = (SELECT id FROM statuses WHERE name = 'success'),
		    dt_sent = $2
		WHERE id = $1
		  AND id_status = (SELECT id FROM statuses WHERE name = 'pending');
    `

	res, err := r.db.ExecContext(ctx, query, id, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// RecordFailure applies one failed attempt in a single statement: the
// attempt counter is incremented, and when the incremented counter reaches
// the ceiling the notification moves to the terminal "failed" status.
//
// It returns the new attempt counter and the ceiling so the caller can
// decide whether a retry is due.
func (r *Repository) RecordFailure(ctx context.Context, id uuid.UUID) (attempts, maxAttempts int, err error) {
	query := `
		UPDATE notifications
		SET attempts = attempts + 1,
		    id_status = CASE
		        WHEN attempts + 1 >= max_attempts THEN (SELECT id FROM statuses WHERE name = 'failed')
		        ELSE id_status
		    END
		WHERE id = $1 AND attempts < max_attempts
		RETURNING attempts, max_attempts;
    `

	err = r.db.Master.QueryRowContext(ctx, query, id).Scan(&attempts, &maxAttempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrNotificationNotFound
		}

		return 0, 0, fmt.Errorf("failed to record delivery failure: %w", err)
	}

	return attempts, maxAttempts, nil
}

// StatusByToken returns the persisted delivery status for the notification
// belonging to the shared copy with the given token.
func (r *Repository) StatusByToken(ctx context.Context, token string) (string, error) {
	query := `
		SELECT s.name
		FROM notifications n
		JOIN statuses s ON s.id = n.id_status
		JOIN copy_shared c ON c.id = n.id_copy_shared
		WHERE c.token = $1
		ORDER BY n.dt_sent DESC NULLS LAST
		LIMIT 1;
    `

	var status string
	err := r.db.Master.QueryRowContext(ctx, query, token).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotificationNotFound
		}

		return "", fmt.Errorf("failed to get notification status: %w", err)
	}

	return status, nil
}
