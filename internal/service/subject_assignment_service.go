package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// AssignSubjectsRequest adds subjects to a student for one semester of the active period.
type AssignSubjectsRequest struct {
	SubjectIDs []string `json:"subject_ids" validate:"required,min=1,dive,required"`
	Semester   int      `json:"semester" validate:"required,min=1,max=12"`
}

// GradeRequest sets a grade, or clears it when Grade is null.
type GradeRequest struct {
	Grade *float64 `json:"grade" validate:"omitempty,min=0,max=100"`
}

// SubjectAssignmentService manages the subjects a student takes and their grades.
type SubjectAssignmentService struct {
	repos       Repos
	tx          TxRunner
	subjects    subjectReader
	maxSubjects int
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectAssignmentService constructs SubjectAssignmentService.
func NewSubjectAssignmentService(repos Repos, tx TxRunner, subjects subjectReader, maxSubjects int, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSubjects <= 0 {
		maxSubjects = 6
	}
	return &SubjectAssignmentService{repos: repos, tx: tx, subjects: subjects, maxSubjects: maxSubjects, cache: cache, validator: validate, logger: logger}
}

// Assign adds subjects to a student in the active period. Subjects already assigned in the period
// are skipped. The student row stays locked while counting so the per semester cap holds.
func (s *SubjectAssignmentService) Assign(ctx context.Context, studentID string, req AssignSubjectsRequest) (*models.AssignSubjectsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject assignment payload")
	}
	for _, id := range req.SubjectIDs {
		if _, err := s.subjects.FindByID(ctx, id); err != nil {
			return nil, notFoundOr(err, "subject "+id+" not found", "failed to load subject")
		}
	}

	result := &models.AssignSubjectsResult{Assigned: []models.SubjectAssignment{}}
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		if _, err := repos.Students.FindByIDForUpdate(ctx, studentID); err != nil {
			return notFoundOr(err, "student not found", "failed to load student")
		}
		count, err := repos.Assignments.CountForSemester(ctx, studentID, active.ID, req.Semester)
		if err != nil {
			return err
		}
		assigned, err := repos.Assignments.ListSubjectIDs(ctx, studentID, active.ID)
		if err != nil {
			return err
		}
		taken := make(map[string]struct{}, len(assigned)+len(req.SubjectIDs))
		for _, id := range assigned {
			taken[id] = struct{}{}
		}
		var pending []string
		for _, id := range req.SubjectIDs {
			if _, ok := taken[id]; ok {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			taken[id] = struct{}{}
			pending = append(pending, id)
		}
		if count+len(pending) > s.maxSubjects {
			return appErrors.Clone(appErrors.ErrValidation, "a student cannot take more subjects in this semester")
		}

		for _, id := range pending {
			assignment := &models.SubjectAssignment{StudentID: studentID, SubjectID: id, PeriodID: active.ID, Semester: req.Semester}
			inserted, err := repos.Assignments.Insert(ctx, assignment)
			if err != nil {
				return err
			}
			if !inserted {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			result.Assigned = append(result.Assigned, *assignment)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to assign subjects")
	}
	s.cache.InvalidateStatistics(ctx)
	return result, nil
}

// List returns a student's subjects visible to scope.
func (s *SubjectAssignmentService) List(ctx context.Context, scope models.Scope, filter models.SubjectAssignmentFilter) ([]models.SubjectAssignment, error) {
	if err := s.ensureVisible(ctx, scope, filter.StudentID); err != nil {
		return nil, err
	}
	items, err := s.repos.Assignments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject assignments")
	}
	if items == nil {
		items = []models.SubjectAssignment{}
	}
	return items, nil
}

// UpdateGrade grades an assignment of the active period. Tutors may only grade their own tutees.
func (s *SubjectAssignmentService) UpdateGrade(ctx context.Context, scope models.Scope, studentID, assignmentID string, req GradeRequest) (*models.SubjectAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "grade must be between 0 and 100")
	}
	if err := s.ensureVisible(ctx, scope, studentID); err != nil {
		return nil, err
	}
	var assignment *models.SubjectAssignment
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		a, err := activeAssignment(ctx, repos, studentID, assignmentID)
		if err != nil {
			return err
		}
		if err := repos.Assignments.UpdateGrade(ctx, a.ID, req.Grade); err != nil {
			return notFoundOr(err, "subject assignment not found", "failed to update grade")
		}
		a.Grade = req.Grade
		assignment = a
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update grade")
	}
	s.cache.InvalidateStatistics(ctx)
	return assignment, nil
}

// Delete removes an assignment of the active period.
func (s *SubjectAssignmentService) Delete(ctx context.Context, studentID, assignmentID string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		assignment, err := activeAssignment(ctx, repos, studentID, assignmentID)
		if err != nil {
			return err
		}
		if err := repos.Assignments.Delete(ctx, assignment.ID); err != nil {
			return notFoundOr(err, "subject assignment not found", "failed to delete subject assignment")
		}
		return nil
	})
	if err != nil {
		return asAppError(err, "failed to delete subject assignment")
	}
	s.cache.InvalidateStatistics(ctx)
	return nil
}

// activeAssignment loads an assignment of studentID and requires it to belong to the active period.
func activeAssignment(ctx context.Context, repos Repos, studentID, assignmentID string) (*models.SubjectAssignment, error) {
	active, err := shareActivePeriod(ctx, repos.Periods)
	if err != nil {
		return nil, err
	}
	assignment, err := repos.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, "subject assignment not found", "failed to load subject assignment")
	}
	if assignment.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject assignment not found")
	}
	if assignment.PeriodID != active.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignments of a non-active period cannot be modified")
	}
	return assignment, nil
}

func (s *SubjectAssignmentService) ensureVisible(ctx context.Context, scope models.Scope, studentID string) error {
	_, err := ensureStudentVisible(ctx, s.repos, scope, studentID)
	return err
}
