package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-api/internal/models"
)

func TestSubjectAssignmentInsertSkipsDuplicates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id, period_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id, period_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.Insert(context.Background(), &models.SubjectAssignment{StudentID: "s1", SubjectID: "m1", PeriodID: "p1", Semester: 3})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = repo.Insert(context.Background(), &models.SubjectAssignment{StudentID: "s1", SubjectID: "m2", PeriodID: "p1", Semester: 3})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectAssignmentCountForSemester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subject_assignments WHERE student_id = $1 AND period_id = $2 AND semester = $3")).
		WithArgs("s1", "p1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountForSemester(context.Background(), "s1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestSubjectAssignmentUpdateGradeClears(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subject_assignments SET grade = $2")).
		WithArgs("a1", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subject_assignments SET grade = $2")).
		WithArgs("a2", 88.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateGrade(context.Background(), "a1", nil))
	grade := 88.5
	assert.ErrorIs(t, repo.UpdateGrade(context.Background(), "a2", &grade), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryListUnpaged(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectQuery(`WHERE 1=1 AND r\.status = \$1 ORDER BY r\.referral_date DESC, r\.created_at DESC$`).
		WithArgs(models.ReferralPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM referrals r WHERE 1=1 AND r.status = $1")).
		WithArgs(models.ReferralPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := repo.List(context.Background(), models.ReferralFilter{Scope: models.AllScope(), Status: models.ReferralPending, PageSize: -1})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListProgramScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND s.id IN (SELECT sp.id FROM students sp WHERE sp.program = $1) ORDER BY s.first_surname, s.first_name ASC LIMIT 20 OFFSET 0")).
		WithArgs("Industrial").
		WillReturnRows(sqlmock.NewRows(studentRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s WHERE 1=1 AND s.id IN")).
		WithArgs("Industrial").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.StudentFilter{Scope: models.ProgramScope("Industrial")})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateSemester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET current_semester = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("s1", 6, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSemester(context.Background(), "s1", 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}
