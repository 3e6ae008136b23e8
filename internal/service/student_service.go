package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	ControlNumber   string  `json:"control_number" validate:"required,max=20"`
	FirstName       string  `json:"first_name" validate:"required,max=100"`
	FirstSurname    string  `json:"first_surname" validate:"required,max=100"`
	SecondSurname   *string `json:"second_surname" validate:"omitempty,max=100"`
	BirthDate       string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Program         string  `json:"program" validate:"required,max=100"`
	CurrentSemester int     `json:"current_semester" validate:"omitempty,min=1,max=12"`
}

// UpdateStudentRequest replaces the editable fields of a student.
type UpdateStudentRequest struct {
	ControlNumber   string  `json:"control_number" validate:"required,max=20"`
	FirstName       string  `json:"first_name" validate:"required,max=100"`
	FirstSurname    string  `json:"first_surname" validate:"required,max=100"`
	SecondSurname   *string `json:"second_surname" validate:"omitempty,max=100"`
	BirthDate       string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Program         string  `json:"program" validate:"required,max=100"`
	CurrentSemester int     `json:"current_semester" validate:"required,min=1,max=12"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repos     Repos
	tx        TxRunner
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repos Repos, tx TxRunner, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repos: repos, tx: tx, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns the students inside scope with pagination metadata.
func (s *StudentService) List(ctx context.Context, scope models.Scope, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	filter.Scope = scope
	if scope.NeedsActivePeriod() {
		active, err := s.repos.Periods.FindActive(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return []models.Student{}, models.NewPagination(filter.Page, filter.PageSize, 0), nil
		case err != nil:
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period")
		}
		filter.PeriodID = active.ID
	}
	students, total, err := s.repos.Students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student visible to scope.
func (s *StudentService) Get(ctx context.Context, scope models.Scope, id string) (*models.Student, error) {
	student, err := s.repos.Students.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	visible, err := studentVisible(ctx, s.repos, scope, student)
	if err != nil {
		return nil, asAppError(err, "failed to resolve student scope")
	}
	if !visible {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is outside your scope")
	}
	return student, nil
}

// Create registers a student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	birthDate, err := s.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	semester := req.CurrentSemester
	if semester == 0 {
		semester = models.MinSemester
	}
	student := &models.Student{
		ControlNumber:   strings.TrimSpace(req.ControlNumber),
		FirstName:       strings.TrimSpace(req.FirstName),
		FirstSurname:    strings.TrimSpace(req.FirstSurname),
		SecondSurname:   trimOptional(req.SecondSurname),
		BirthDate:       birthDate,
		Program:         strings.TrimSpace(req.Program),
		CurrentSemester: semester,
	}
	if err := s.ensureControlNumberFree(ctx, student.ControlNumber, ""); err != nil {
		return nil, err
	}
	if err := s.repos.Students.Create(ctx, student); err != nil {
		return nil, studentWriteError(err, "failed to create student")
	}
	s.cache.InvalidateStatistics(ctx)
	return student, nil
}

// Update replaces a student's editable fields.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	birthDate, err := s.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	student, err := s.repos.Students.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	student.ControlNumber = strings.TrimSpace(req.ControlNumber)
	student.FirstName = strings.TrimSpace(req.FirstName)
	student.FirstSurname = strings.TrimSpace(req.FirstSurname)
	student.SecondSurname = trimOptional(req.SecondSurname)
	student.BirthDate = birthDate
	student.Program = strings.TrimSpace(req.Program)
	student.CurrentSemester = req.CurrentSemester

	if err := s.ensureControlNumberFree(ctx, student.ControlNumber, student.ID); err != nil {
		return nil, err
	}
	if err := s.repos.Students.Update(ctx, student); err != nil {
		return nil, studentWriteError(err, "failed to update student")
	}
	s.cache.InvalidateStatistics(ctx)
	return student, nil
}

// Delete removes a student that is not enrolled in the active period.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		if _, err := repos.Students.FindByIDForUpdate(ctx, id); err != nil {
			return notFoundOr(err, "student not found", "failed to load student")
		}
		active, err := repos.Periods.FindActiveForShare(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if active != nil {
			_, err := repos.Enrollments.FindByStudentAndPeriod(ctx, id, active.ID)
			if err == nil {
				return appErrors.Clone(appErrors.ErrConflict, "student is enrolled in the active period")
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
		return repos.Students.Delete(ctx, id)
	})
	if err != nil {
		return studentWriteError(err, "failed to delete student")
	}
	s.cache.InvalidateStatistics(ctx)
	return nil
}

func (s *StudentService) ensureControlNumberFree(ctx context.Context, controlNumber, excludeID string) error {
	exists, err := s.repos.Students.ExistsByControlNumber(ctx, controlNumber, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate control number")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "control number already registered")
	}
	return nil
}

func (s *StudentService) parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	birth, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth_date")
	}
	if birth.Year() < 1900 || birth.Year() > s.now().Year() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "birth_date year out of range")
	}
	return &birth, nil
}

// studentVisible reports whether scope covers student. Tutor and group scopes look at the
// student's enrollment in the active period.
// ensureStudentVisible loads a student and fails with FORBIDDEN when it is outside scope.
func ensureStudentVisible(ctx context.Context, repos Repos, scope models.Scope, studentID string) (*models.Student, error) {
	student, err := repos.Students.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	visible, err := studentVisible(ctx, repos, scope, student)
	if err != nil {
		return nil, asAppError(err, "failed to resolve student scope")
	}
	if !visible {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is outside your scope")
	}
	return student, nil
}

func studentVisible(ctx context.Context, repos Repos, scope models.Scope, student *models.Student) (bool, error) {
	switch scope.Kind {
	case models.ScopeAll:
		return true, nil
	case models.ScopeProgram:
		return student.Program == scope.Program, nil
	case models.ScopeTutor, models.ScopeGroup:
	default:
		return false, nil
	}

	active, err := repos.Periods.FindActive(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	enrollment, err := repos.Enrollments.FindByStudentAndPeriod(ctx, student.ID, active.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if scope.Kind == models.ScopeGroup {
		return enrollment.GroupID == scope.GroupID, nil
	}
	group, err := repos.Groups.FindByID(ctx, enrollment.GroupID)
	if err != nil {
		return false, err
	}
	return group.TutorID != nil && *group.TutorID == scope.TutorID, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func studentWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrUniqueViolation):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "control number already registered")
	case errors.Is(err, repository.ErrCheckViolation):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "semester out of range")
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "student is still referenced")
	}
	return asAppError(err, message)
}
