package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

// AssignStudentsRequest enrolls one student, or several when StudentIDs is set.
type AssignStudentsRequest struct {
	StudentID  string   `json:"student_id" validate:"required_without=StudentIDs"`
	StudentIDs []string `json:"student_ids" validate:"omitempty,max=200,dive,required"`
}

// ChangeGroupRequest moves a student to another group of the active period.
type ChangeGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// EnrollmentService is the ledger of student to group assignments. Every write targets the active
// period; enrollments of closed periods are read only.
type EnrollmentService struct {
	repos     Repos
	tx        TxRunner
	metrics   *MetricsService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repos Repos, tx TxRunner, metrics *MetricsService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repos: repos, tx: tx, metrics: metrics, cache: cache, validator: validate, logger: logger}
}

// Assign enrolls studentID in groupID for the active period.
func (s *EnrollmentService) Assign(ctx context.Context, groupID, studentID string) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		group, err := lockWritableGroup(ctx, repos.Groups, groupID, active)
		if err != nil {
			return err
		}
		if _, err := repos.Students.FindByID(ctx, studentID); err != nil {
			return notFoundOr(err, "student not found", "failed to load student")
		}

		existing, err := repos.Enrollments.FindByStudentAndPeriod(ctx, studentID, active.ID)
		switch {
		case err == nil && existing.GroupID == groupID:
			return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this group")
		case err == nil:
			return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in another group of the active period")
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		if err := ensureCapacity(ctx, repos.Enrollments, group); err != nil {
			return err
		}
		enrollment = &models.Enrollment{StudentID: studentID, GroupID: group.ID, PeriodID: active.ID}
		return repos.Enrollments.Create(ctx, enrollment)
	})
	if err != nil {
		err = enrollmentWriteError(err, "failed to enroll student")
		s.recordRejection(err)
		return nil, err
	}
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("group_id", groupID), zap.String("period_id", enrollment.PeriodID))
	s.cache.InvalidateStatistics(ctx)
	return enrollment, nil
}

// AssignBatch enrolls each student in its own transaction and reports one outcome per student.
// A capacity failure for one student does not undo the students enrolled before it.
func (s *EnrollmentService) AssignBatch(ctx context.Context, groupID string, req AssignStudentsRequest) ([]models.EnrollmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	ids := req.StudentIDs
	if len(ids) == 0 {
		ids = []string{req.StudentID}
	}

	seen := make(map[string]struct{}, len(ids))
	outcomes := make([]models.EnrollmentOutcome, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		outcome := models.EnrollmentOutcome{StudentID: id}
		enrollment, err := s.Assign(ctx, groupID, id)
		if err != nil {
			appErr := appErrors.FromError(err)
			if appErr.Status >= 500 {
				return outcomes, err
			}
			outcome.ErrorCode = appErr.Code
			outcome.Error = appErr.Message
		} else {
			outcome.Enrollment = enrollment
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// Remove deletes the active period enrollment of studentID in groupID.
func (s *EnrollmentService) Remove(ctx context.Context, groupID, studentID string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		removed, err := repos.Enrollments.Delete(ctx, groupID, studentID, active.ID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found in the active period")
		}
		return nil
	})
	if err != nil {
		return asAppError(err, "failed to remove enrollment")
	}
	s.logger.Info("student unenrolled", zap.String("student_id", studentID), zap.String("group_id", groupID))
	s.cache.InvalidateStatistics(ctx)
	return nil
}

// ChangeGroup moves the active period enrollment of studentID to groupID, keeping the enrollment row.
func (s *EnrollmentService) ChangeGroup(ctx context.Context, studentID string, req ChangeGroupRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change group payload")
	}
	var enrollment *models.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		current, err := repos.Enrollments.FindByStudentAndPeriod(ctx, studentID, active.ID)
		if err != nil {
			return notFoundOr(err, "student has no group in the active period", "failed to load enrollment")
		}
		group, err := lockWritableGroup(ctx, repos.Groups, req.GroupID, active)
		if err != nil {
			return err
		}
		if current.GroupID == group.ID {
			enrollment = current
			return nil
		}
		if err := ensureCapacity(ctx, repos.Enrollments, group); err != nil {
			return err
		}
		if err := repos.Enrollments.UpdateGroup(ctx, current.ID, group.ID); err != nil {
			return err
		}
		current.GroupID = group.ID
		enrollment = current
		return nil
	})
	if err != nil {
		err = enrollmentWriteError(err, "failed to change group")
		s.recordRejection(err)
		return nil, err
	}
	s.logger.Info("student changed group", zap.String("student_id", studentID), zap.String("group_id", enrollment.GroupID))
	s.cache.InvalidateStatistics(ctx)
	return enrollment, nil
}

// ListAvailable returns students without a group in the active period. Unless all is set the
// candidates must also match the group's program and semester.
func (s *EnrollmentService) ListAvailable(ctx context.Context, groupID string, all bool) ([]models.Student, error) {
	active, err := requireActivePeriod(ctx, s.repos.Periods)
	if err != nil {
		return nil, err
	}
	group, err := s.repos.Groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group not found", "failed to load group")
	}
	if group.PeriodID != active.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "group does not belong to the active period")
	}
	students, err := s.repos.Enrollments.ListAvailableStudents(ctx, models.AvailableStudentsFilter{
		PeriodID:                active.ID,
		Program:                 group.Program,
		Semester:                group.Semester,
		AllProgramsAndSemesters: all,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available students")
	}
	return students, nil
}

// ListGroupStudents returns the students enrolled in a group during the group's own period.
func (s *EnrollmentService) ListGroupStudents(ctx context.Context, groupID string, scope models.Scope) ([]models.Student, error) {
	group, err := s.repos.Groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group not found", "failed to load group")
	}
	if !groupVisible(scope, group) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "group is outside your scope")
	}
	students, err := s.repos.Enrollments.ListStudentsByGroup(ctx, group.ID, group.PeriodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group students")
	}
	return students, nil
}

func (s *EnrollmentService) recordRejection(err error) {
	if appErr := appErrors.FromError(err); appErr != nil && appErr.Status < 500 {
		s.metrics.RecordEnrollmentRejection(appErr.Code)
	}
}

// lockWritableGroup row-locks a group and requires it to belong to the active period.
func lockWritableGroup(ctx context.Context, groups groupStore, groupID string, active *models.Period) (*models.Group, error) {
	group, err := groups.FindByIDForUpdate(ctx, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group not found", "failed to load group")
	}
	if group.PeriodID != active.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "groups of a non-active period cannot be modified")
	}
	return group, nil
}

// ensureCapacity fails with CAPACITY_EXCEEDED when the locked group is full.
func ensureCapacity(ctx context.Context, enrollments enrollmentStore, group *models.Group) error {
	count, err := enrollments.CountByGroup(ctx, group.ID, group.PeriodID)
	if err != nil {
		return err
	}
	if count >= group.MaxCapacity {
		return appErrors.Clone(appErrors.ErrCapacity, "group has reached its maximum capacity")
	}
	return nil
}

func enrollmentWriteError(err error, message string) error {
	if errors.Is(err, repository.ErrUniqueViolation) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "student already enrolled in the active period")
	}
	return asAppError(err, message)
}
