package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type periodStore interface {
	List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, int, error)
	FindByID(ctx context.Context, id string) (*models.Period, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Period, error)
	FindActive(ctx context.Context) (*models.Period, error)
	FindActiveForShare(ctx context.Context) (*models.Period, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, period *models.Period) error
	Update(ctx context.Context, period *models.Period) error
	DeactivateAll(ctx context.Context, exceptID string) (int64, error)
	Activate(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountGroups(ctx context.Context, id string) (int, error)
}

type groupStore interface {
	List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error)
	FindByID(ctx context.Context, id string) (*models.Group, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id string) error
}

type enrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByStudentAndPeriod(ctx context.Context, studentID, periodID string) (*models.Enrollment, error)
	CountByGroup(ctx context.Context, groupID, periodID string) (int, error)
	UpdateGroup(ctx context.Context, id, groupID string) error
	Delete(ctx context.Context, groupID, studentID, periodID string) (int64, error)
	ListByPeriod(ctx context.Context, periodID string) ([]models.Enrollment, error)
	ListStudentsByGroup(ctx context.Context, groupID, periodID string) ([]models.Student, error)
	ListAvailableStudents(ctx context.Context, filter models.AvailableStudentsFilter) ([]models.Student, error)
}

type studentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error)
	ExistsByControlNumber(ctx context.Context, controlNumber, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	UpdateSemester(ctx context.Context, id string, semester int) error
	Delete(ctx context.Context, id string) error
}

type assignmentStore interface {
	CountForSemester(ctx context.Context, studentID, periodID string, semester int) (int, error)
	ListSubjectIDs(ctx context.Context, studentID, periodID string) ([]string, error)
	Insert(ctx context.Context, assignment *models.SubjectAssignment) (bool, error)
	List(ctx context.Context, filter models.SubjectAssignmentFilter) ([]models.SubjectAssignment, error)
	FindByID(ctx context.Context, id string) (*models.SubjectAssignment, error)
	UpdateGrade(ctx context.Context, id string, grade *float64) error
	Delete(ctx context.Context, id string) error
}

// Repos bundles the stores that take part in multi-step academic writes.
type Repos struct {
	Periods     periodStore
	Groups      groupStore
	Enrollments enrollmentStore
	Students    studentStore
	Assignments assignmentStore
}

// NewSQLRepos binds every store to db, which may be a pool or a transaction.
func NewSQLRepos(db repository.DBTX) Repos {
	return Repos{
		Periods:     repository.NewPeriodRepository(db),
		Groups:      repository.NewGroupRepository(db),
		Enrollments: repository.NewEnrollmentRepository(db),
		Students:    repository.NewStudentRepository(db),
		Assignments: repository.NewSubjectAssignmentRepository(db),
	}
}

// TxRunner executes fn with stores bound to a single transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

// SQLTxRunner runs units of work through a repository.Transactor.
type SQLTxRunner struct {
	transactor *repository.Transactor
}

// NewSQLTxRunner constructs a SQLTxRunner.
func NewSQLTxRunner(transactor *repository.Transactor) *SQLTxRunner {
	return &SQLTxRunner{transactor: transactor}
}

// RunInTx implements TxRunner.
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return r.transactor.WithinTx(ctx, func(tx repository.DBTX) error {
		return fn(ctx, NewSQLRepos(tx))
	})
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// asAppError keeps typed errors raised inside a unit of work and wraps anything else as internal.
func asAppError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// notFoundOr maps sql.ErrNoRows to a NOT_FOUND error with notFound as message.
func notFoundOr(err error, notFound, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return asAppError(err, message)
}

// requireActivePeriod loads the active period or fails with NO_ACTIVE_PERIOD.
func requireActivePeriod(ctx context.Context, periods periodStore) (*models.Period, error) {
	period, err := periods.FindActive(ctx)
	if err != nil {
		return nil, activePeriodError(err)
	}
	return period, nil
}

// shareActivePeriod is requireActivePeriod for writers inside a transaction. The FOR SHARE lock
// makes closing or switching the period wait until the writer commits.
func shareActivePeriod(ctx context.Context, periods periodStore) (*models.Period, error) {
	period, err := periods.FindActiveForShare(ctx)
	if err != nil {
		return nil, activePeriodError(err)
	}
	return period, nil
}

func activePeriodError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNoActivePeriod, "no active period")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period")
}
