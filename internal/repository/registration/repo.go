package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/TimeBox-aste/obo-space-web/internal/model"
)

// ErrStatusNotFound is returned when the seeded status set is missing a
// required status name. This is a configuration error, not a reason to
// create the row on the fly.
var ErrStatusNotFound = errors.New("status not found")

// Repository materializes registration events into users, shared copies and
// notifications.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new registration repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// CreateFromRegistration records one accepted registration in a single
// transaction: the user is looked up by email and created if absent, the
// user's shared copy is looked up and created with a fresh token if absent,
// and a new notification is inserted in "pending" status.
//
// It returns the share token the notification email will link to.
func (r *Repository) CreateFromRegistration(ctx context.Context, reg model.Registration) (string, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zlog.Logger.Error().Err(err).Msg("failed to rollback transaction")
		}
	}()

	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1;`, reg.Email).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, nickname)
			VALUES ($1, $2)
			RETURNING id;
        `, reg.Email, reg.FullName).Scan(&userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get or create user: %w", err)
	}

	var copyID uuid.UUID
	var token string
	err = tx.QueryRowContext(ctx, `
		SELECT id, token FROM copy_shared WHERE id_user = $1 LIMIT 1;
    `, userID).Scan(&copyID, &token)
	if errors.Is(err, sql.ErrNoRows) {
		token = uuid.NewString()
		err = tx.QueryRowContext(ctx, `
			INSERT INTO copy_shared (id_user, token)
			VALUES ($1, $2)
			RETURNING id, token;
        `, userID, token).Scan(&copyID, &token)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get or create shared copy: %w", err)
	}

	var statusID int
	err = tx.QueryRowContext(ctx, `SELECT id FROM statuses WHERE name = $1;`, model.StatusPending).Scan(&statusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("status %q: %w", model.StatusPending, ErrStatusNotFound)
		}

		return "", fmt.Errorf("failed to get pending status: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (id_copy_shared, id_status)
		VALUES ($1, $2);
    `, copyID, statusID)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return token, nil
}
