package registration

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"

	"github.com/TimeBox-aste/obo-space-web/internal/model"
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

func TestCreateFromRegistration_NewUser(t *testing.T) {
	repo, mock := setupMockDB(t)

	reg := model.Registration{FullName: "Ковалёв Евгений", Email: "a@x.com"}
	userID := uuid.New()
	copyID := uuid.New()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE email = $1;`)).
		WithArgs(reg.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, nickname)`)).
		WithArgs(reg.Email, reg.FullName).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token FROM copy_shared WHERE id_user = $1 LIMIT 1;`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token"}))

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO copy_shared (id_user, token)`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token"}).AddRow(copyID, "generated-token"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM statuses WHERE name = $1;`)).
		WithArgs(model.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications (id_copy_shared, id_status)`)).
		WithArgs(copyID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	token, err := repo.CreateFromRegistration(context.Background(), reg)
	assert.NoError(t, err)
	assert.Equal(t, "generated-token", token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFromRegistration_ExistingUserAndCopy(t *testing.T) {
	repo, mock := setupMockDB(t)

	reg := model.Registration{FullName: "Ковалёв Евгений", Email: "a@x.com"}
	userID := uuid.New()
	copyID := uuid.New()
	token := uuid.NewString()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE email = $1;`)).
		WithArgs(reg.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token FROM copy_shared WHERE id_user = $1 LIMIT 1;`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token"}).AddRow(copyID, token))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM statuses WHERE name = $1;`)).
		WithArgs(model.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications (id_copy_shared, id_status)`)).
		WithArgs(copyID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	got, err := repo.CreateFromRegistration(context.Background(), reg)
	assert.NoError(t, err)
	assert.Equal(t, token, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFromRegistration_MissingStatusIsConfigError(t *testing.T) {
	repo, mock := setupMockDB(t)

	reg := model.Registration{FullName: "A", Email: "a@x.com"}
	userID := uuid.New()
	copyID := uuid.New()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE email = $1;`)).
		WithArgs(reg.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, token FROM copy_shared WHERE id_user = $1 LIMIT 1;`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token"}).AddRow(copyID, "token"))

	// The status set is seeded by migrations; a missing name must surface as
	// an error instead of creating the row on the fly.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM statuses WHERE name = $1;`)).
		WithArgs(model.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectRollback()

	_, err := repo.CreateFromRegistration(context.Background(), reg)
	assert.ErrorIs(t, err, ErrStatusNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFromRegistration_TransientFailureRollsBack(t *testing.T) {
	repo, mock := setupMockDB(t)

	reg := model.Registration{FullName: "A", Email: "a@x.com"}

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE email = $1;`)).
		WithArgs(reg.Email).
		WillReturnError(errors.New("connection reset"))

	mock.ExpectRollback()

	_, err := repo.CreateFromRegistration(context.Background(), reg)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
