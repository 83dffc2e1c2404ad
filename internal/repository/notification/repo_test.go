package notification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

func TestPendingDeliveries(t *testing.T) {
	repo, mock := setupMockDB(t)

	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT n.id
		FROM notifications n
		JOIN statuses s ON s.id = n.id_status
		WHERE s.name = 'pending' AND n.attempts < n.max_attempts;
    `)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(first).AddRow(second))

	ids, err := repo.PendingDeliveries(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	token := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT n.id, s.name, n.attempts, n.max_attempts, u.email, c.token`)).
		WithArgs(id).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "name", "attempts", "max_attempts", "email", "token"}).
			AddRow(id, "pending", 1, 3, "a@x.com", token))

	d, err := repo.DeliveryByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, id, d.NotificationID)
	assert.Equal(t, "pending", d.Status)
	assert.Equal(t, 1, d.Attempts)
	assert.Equal(t, 3, d.MaxAttempts)
	assert.Equal(t, "a@x.com", d.Email)
	assert.Equal(t, token, d.Token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryByID_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT n.id, s.name, n.attempts, n.max_attempts, u.email, c.token`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "attempts", "max_attempts", "email", "token"}))

	_, err := repo.DeliveryByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSuccess(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	sentAt := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications`)).
		WithArgs(id, sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSuccess(context.Background(), id, sentAt)
	assert.NoError(t, err)

	// A row already in a terminal state is not updated.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications`)).
		WithArgs(id, sentAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkSuccess(context.Background(), id, sentAt)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailure_BelowCeiling(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SET attempts = attempts + 1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"attempts", "max_attempts"}).AddRow(2, 3))

	attempts, maxAttempts, err := repo.RecordFailure(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 3, maxAttempts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailure_ReachesCeiling(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SET attempts = attempts + 1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"attempts", "max_attempts"}).AddRow(3, 3))

	attempts, maxAttempts, err := repo.RecordFailure(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, maxAttempts, attempts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailure_AlreadyTerminal(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	// attempts < max_attempts guard matched no row.
	mock.ExpectQuery(regexp.QuoteMeta(`SET attempts = attempts + 1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"attempts", "max_attempts"}))

	_, _, err := repo.RecordFailure(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusByToken(t *testing.T) {
	repo, mock := setupMockDB(t)

	token := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.name`)).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("success"))

	status, err := repo.StatusByToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "success", status)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.name`)).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err = repo.StatusByToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
