package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-api/internal/models"
)

var statisticsColumns = []string{"total_students", "at_risk_students", "open_referrals", "grade_average", "recent_absence_alerts"}

func TestStatisticsRepositorySummaryTutorScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatisticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WITH scoped AS (SELECT s.id FROM students s WHERE s.id IN (SELECT se.student_id FROM enrollments se JOIN groups sg ON sg.id = se.group_id WHERE se.period_id = $8 AND sg.tutor_id = $9))")).
		WithArgs("p1", models.PassingGrade, "activa", sqlmock.AnyArg(), sqlmock.AnyArg(), "faltas_consecutivas", models.RecentAbsenceThreshold, "p1", "t1").
		WillReturnRows(sqlmock.NewRows(statisticsColumns).AddRow(25, 4, 3, "81.35", 1))

	stats, err := repo.Summary(context.Background(), models.TutorScope("t1"), "p1")
	require.NoError(t, err)
	assert.Equal(t, 25, stats.TotalStudents)
	assert.Equal(t, 4, stats.AtRiskStudents)
	assert.Equal(t, 3, stats.OpenReferrals)
	assert.InDelta(t, 81.35, stats.GradeAverage, 0.001)
	assert.Equal(t, 1, stats.RecentAbsenceAlerts)
	assert.Equal(t, "p1", stats.PeriodID)
	assert.Equal(t, "tutor:t1", stats.Scope)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsRepositorySummaryAllScopeHasNoFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatisticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WITH scoped AS (SELECT s.id FROM students s)")).
		WillReturnRows(sqlmock.NewRows(statisticsColumns).AddRow(0, 0, 0, "0", 0))

	stats, err := repo.Summary(context.Background(), models.AllScope(), "p1")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalStudents)
	assert.Zero(t, stats.GradeAverage)
}

// sqlmock does not evaluate SQL, so the rollup rules are pinned by the query text and its arguments.
func TestStatisticsRepositoryAtRiskNeedsTwoFailingGrades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatisticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sa.student_id = sc.id AND sa.period_id = $1 AND sa.grade < $2) >= 2")).
		WithArgs("p1", 70, "activa", sqlmock.AnyArg(), sqlmock.AnyArg(), "faltas_consecutivas", models.RecentAbsenceThreshold).
		WillReturnRows(sqlmock.NewRows(statisticsColumns).AddRow(3, 1, 0, "68.5", 0))

	stats, err := repo.Summary(context.Background(), models.AllScope(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AtRiskStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsRepositorySummaryProgramScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatisticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WITH scoped AS (SELECT s.id FROM students s WHERE s.id IN (SELECT sp.id FROM students sp WHERE sp.program = $8))")).
		WithArgs("p1", models.PassingGrade, "activa", sqlmock.AnyArg(), sqlmock.AnyArg(), "faltas_consecutivas", models.RecentAbsenceThreshold, "Sistemas").
		WillReturnRows(sqlmock.NewRows(statisticsColumns).AddRow(12, 2, 1, "77.10", 0))

	stats, err := repo.Summary(context.Background(), models.ProgramScope("Sistemas"), "p1")
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalStudents)
	assert.Equal(t, 2, stats.AtRiskStudents)
	assert.Equal(t, "program:Sistemas", stats.Scope)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsRepositorySummaryGroupScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatisticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE se.period_id = $8 AND se.group_id = $9")).
		WithArgs("p1", models.PassingGrade, "activa", sqlmock.AnyArg(), sqlmock.AnyArg(), "faltas_consecutivas", models.RecentAbsenceThreshold, "p1", "g1").
		WillReturnRows(sqlmock.NewRows(statisticsColumns).AddRow(2, 0, 0, "90", 0))

	stats, err := repo.Summary(context.Background(), models.GroupScope("g1"), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
