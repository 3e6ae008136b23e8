package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type tutorLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateGroupRequest describes a new group in the active period.
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Semester    int     `json:"semester" validate:"required,min=1,max=12"`
	Program     string  `json:"program" validate:"required,max=100"`
	TutorID     *string `json:"tutor_id" validate:"omitempty"`
	MaxCapacity int     `json:"max_capacity" validate:"omitempty,min=1,max=500"`
}

// UpdateGroupRequest changes a group of the active period. Zero values are kept.
type UpdateGroupRequest struct {
	Name        string `json:"name" validate:"omitempty,max=50"`
	Semester    int    `json:"semester" validate:"omitempty,min=1,max=12"`
	Program     string `json:"program" validate:"omitempty,max=100"`
	MaxCapacity int    `json:"max_capacity" validate:"omitempty,min=1,max=500"`
}

// AssignTutorRequest sets or clears the tutor of a group.
type AssignTutorRequest struct {
	TutorID *string `json:"tutor_id"`
}

// GroupService manages groups. Only groups of the active period can change.
type GroupService struct {
	repos           Repos
	tx              TxRunner
	users           tutorLookup
	defaultCapacity int
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(repos Repos, tx TxRunner, users tutorLookup, defaultCapacity int, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCapacity <= 0 {
		defaultCapacity = 35
	}
	return &GroupService{repos: repos, tx: tx, users: users, defaultCapacity: defaultCapacity, validator: validate, logger: logger}
}

// List returns the groups of periodID, or of the active period when periodID is empty, narrowed to
// the caller's scope.
func (s *GroupService) List(ctx context.Context, scope models.Scope, filter models.GroupFilter) ([]models.GroupDetail, error) {
	if filter.PeriodID == "" {
		active, err := requireActivePeriod(ctx, s.repos.Periods)
		if err != nil {
			return nil, err
		}
		filter.PeriodID = active.ID
	}
	switch scope.Kind {
	case models.ScopeAll:
	case models.ScopeProgram:
		filter.Program = scope.Program
	case models.ScopeTutor:
		filter.TutorID = scope.TutorID
	default:
		return []models.GroupDetail{}, nil
	}
	groups, err := s.repos.Groups.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	if groups == nil {
		groups = []models.GroupDetail{}
	}
	return groups, nil
}

// Get returns a group visible to scope.
func (s *GroupService) Get(ctx context.Context, scope models.Scope, id string) (*models.Group, error) {
	group, err := s.repos.Groups.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "group not found", "failed to load group")
	}
	if !groupVisible(scope, group) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "group is outside your scope")
	}
	return group, nil
}

// Create adds a group to the active period.
func (s *GroupService) Create(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	tutorID, err := s.resolveTutor(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}
	capacity := req.MaxCapacity
	if capacity == 0 {
		capacity = s.defaultCapacity
	}
	group := &models.Group{
		Name:        strings.TrimSpace(req.Name),
		Semester:    req.Semester,
		Program:     strings.TrimSpace(req.Program),
		TutorID:     tutorID,
		MaxCapacity: capacity,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		group.PeriodID = active.ID
		return repos.Groups.Create(ctx, group)
	})
	if err != nil {
		return nil, groupWriteError(err, "failed to create group")
	}
	return group, nil
}

// Update edits a group of the active period. Capacity cannot drop below the current head count.
func (s *GroupService) Update(ctx context.Context, id string, req UpdateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	var group *models.Group
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		g, err := lockWritableGroup(ctx, repos.Groups, id, active)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			g.Name = name
		}
		if req.Semester != 0 {
			g.Semester = req.Semester
		}
		if program := strings.TrimSpace(req.Program); program != "" {
			g.Program = program
		}
		if req.MaxCapacity != 0 {
			count, err := repos.Enrollments.CountByGroup(ctx, g.ID, g.PeriodID)
			if err != nil {
				return err
			}
			if req.MaxCapacity < count {
				return appErrors.Clone(appErrors.ErrConflict, "capacity cannot be lower than the enrolled students")
			}
			g.MaxCapacity = req.MaxCapacity
		}
		if err := repos.Groups.Update(ctx, g); err != nil {
			return err
		}
		group = g
		return nil
	})
	if err != nil {
		return nil, groupWriteError(err, "failed to update group")
	}
	return group, nil
}

// AssignTutor sets or clears the tutor of a group of the active period.
func (s *GroupService) AssignTutor(ctx context.Context, id string, req AssignTutorRequest) (*models.Group, error) {
	tutorID, err := s.resolveTutor(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}
	var group *models.Group
	err = s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		g, err := lockWritableGroup(ctx, repos.Groups, id, active)
		if err != nil {
			return err
		}
		g.TutorID = tutorID
		if err := repos.Groups.Update(ctx, g); err != nil {
			return err
		}
		group = g
		return nil
	})
	if err != nil {
		return nil, groupWriteError(err, "failed to assign tutor")
	}
	return group, nil
}

// Delete removes an empty group of the active period.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := shareActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		g, err := lockWritableGroup(ctx, repos.Groups, id, active)
		if err != nil {
			return err
		}
		count, err := repos.Enrollments.CountByGroup(ctx, g.ID, g.PeriodID)
		if err != nil {
			return err
		}
		if count > 0 {
			return appErrors.Clone(appErrors.ErrConflict, "group still has enrolled students")
		}
		return repos.Groups.Delete(ctx, g.ID)
	})
	if err != nil {
		return groupWriteError(err, "failed to delete group")
	}
	return nil
}

func (s *GroupService) resolveTutor(ctx context.Context, tutorID *string) (*string, error) {
	if tutorID == nil || strings.TrimSpace(*tutorID) == "" {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, *tutorID)
	if err != nil {
		return nil, notFoundOr(err, "tutor not found", "failed to load tutor")
	}
	if user.Role != models.RoleTutor || !user.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tutor must be an active user with role TUTOR")
	}
	id := user.ID
	return &id, nil
}

// groupVisible reports whether scope may read group.
func groupVisible(scope models.Scope, group *models.Group) bool {
	switch scope.Kind {
	case models.ScopeAll:
		return true
	case models.ScopeProgram:
		return group.Program == scope.Program
	case models.ScopeTutor:
		return group.TutorID != nil && *group.TutorID == scope.TutorID
	case models.ScopeGroup:
		return group.ID == scope.GroupID
	default:
		return false
	}
}

func groupWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "group is still referenced")
	case errors.Is(err, repository.ErrCheckViolation):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "group violates semester or capacity limits")
	}
	return asAppError(err, message)
}
