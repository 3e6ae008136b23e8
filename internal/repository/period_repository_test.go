package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-api/internal/models"
)

var periodRowColumns = []string{"id", "name", "start_date", "end_date", "active", "created_at", "updated_at"}

func TestPeriodRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	start := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(periodRowColumns).AddRow("p1", "ENE-JUN 2025", start, start.AddDate(0, 5, 0), true, start, start)
	mock.ExpectQuery(regexp.QuoteMeta("FROM periods WHERE active = TRUE LIMIT 1")).WillReturnRows(rows)

	period, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1", period.ID)
	assert.True(t, period.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryFindActiveNone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM periods WHERE active = TRUE")).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestPeriodRepositoryFindActiveForShare(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM periods WHERE active = TRUE LIMIT 1 FOR SHARE")).
		WillReturnRows(sqlmock.NewRows(periodRowColumns).AddRow("p1", "ENE-JUN 2025", now, now.AddDate(0, 5, 0), true, now, now))

	period, err := repo.FindActiveForShare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1", period.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryListNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM periods WHERE 1=1 AND active = $1 ORDER BY start_date DESC LIMIT 10 OFFSET 10")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows(periodRowColumns).AddRow("p0", "AGO-DIC 2024", now, now, false, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods WHERE 1=1 AND active = $1")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	inactive := false
	periods, total, err := repo.List(context.Background(), models.PeriodFilter{Active: &inactive, Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryDeactivateAllExcept(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET active = FALSE, updated_at = $1 WHERE active = TRUE AND id <> $2")).
		WithArgs(sqlmock.AnyArg(), "p2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeactivateAll(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryDeactivateAllWithoutException(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET active = FALSE, updated_at = $1 WHERE active = TRUE")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeactivateAll(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryActivateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET active = TRUE")).
		WithArgs("nope", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Activate(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPeriodRepositoryActivateRaceSurfacesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET active = TRUE")).
		WithArgs("p2", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "periods_single_active_idx"})

	err := repo.Activate(context.Background(), "p2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.Equal(t, "periods_single_active_idx", ConstraintName(err))
}

func TestPeriodRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec("INSERT INTO periods").WillReturnResult(sqlmock.NewResult(1, 1))

	period := &models.Period{Name: "AGO-DIC 2025", StartDate: time.Now(), EndDate: time.Now().AddDate(0, 4, 0), Active: true}
	require.NoError(t, repo.Create(context.Background(), period))
	assert.NotEmpty(t, period.ID)
	assert.False(t, period.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryCountGroups(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM groups WHERE period_id = $1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountGroups(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTransactorCommitsAndRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET active = FALSE")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(q DBTX) error {
		_, err := NewPeriodRepository(q).DeactivateAll(context.Background(), "")
		return err
	})
	require.NoError(t, err)

	sentinel := errors.New("stop")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = tx.WithinTx(context.Background(), func(q DBTX) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
