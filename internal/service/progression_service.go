package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

// ClosePeriodRequest names the successor of the period being closed.
type ClosePeriodRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	StartDate     string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	CloneGroupIDs []string `json:"clone_group_ids" validate:"omitempty,dive,required"`
}

// CloneGroupsRequest copies groups into another period one semester ahead.
type CloneGroupsRequest struct {
	GroupIDs []string `json:"group_ids" validate:"required,min=1,dive,required"`
	PeriodID string   `json:"period_id" validate:"required"`
}

// ProgressionService moves students and groups from one period to the next.
type ProgressionService struct {
	tx        TxRunner
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressionService constructs a ProgressionService.
func NewProgressionService(tx TxRunner, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ProgressionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressionService{tx: tx, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// AdvanceSemesterForActivePeriod moves every student enrolled in the active period to the next
// semester. Students already in the last semester stay where they are. Calling it twice advances
// twice.
func (s *ProgressionService) AdvanceSemesterForActivePeriod(ctx context.Context) (int, error) {
	var advanced int
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		active, err := requireActivePeriod(ctx, repos.Periods)
		if err != nil {
			return err
		}
		// wait for enrollment writers holding the period row
		if active, err = repos.Periods.FindByIDForUpdate(ctx, active.ID); err != nil {
			return notFoundOr(err, "active period not found", "failed to lock active period")
		}
		if !active.Active {
			return appErrors.Clone(appErrors.ErrNoActivePeriod, "no active period")
		}
		advanced, err = advanceEnrolledStudents(ctx, repos, active.ID)
		return err
	})
	if err != nil {
		return 0, asAppError(err, "failed to advance semesters")
	}
	s.metrics.RecordSemesterAdvance(advanced, 0)
	s.logger.Info("semesters advanced", zap.Int("advanced_count", advanced))
	s.cache.InvalidateStatistics(ctx)
	return advanced, nil
}

// ClosePeriodAndOpenNext advances the enrolled students, closes periodID and opens its successor
// as the new active period, all in one transaction. Groups listed in CloneGroupIDs are copied into
// the new period within the same transaction.
func (s *ProgressionService) ClosePeriodAndOpenNext(ctx context.Context, periodID string, req ClosePeriodRequest) (*models.PeriodTransition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid close period payload")
	}
	start, end, err := parsePeriodDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var transition *models.PeriodTransition
	err = s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		current, err := repos.Periods.FindByIDForUpdate(ctx, periodID)
		if err != nil {
			return notFoundOr(err, "period not found", "failed to load period")
		}
		if !current.Active {
			return appErrors.Clone(appErrors.ErrConflict, "only the active period can be closed")
		}

		advanced, err := advanceEnrolledStudents(ctx, repos, current.ID)
		if err != nil {
			return err
		}
		if err := repos.Periods.Deactivate(ctx, current.ID); err != nil {
			return err
		}
		current.Active = false

		next := &models.Period{Name: strings.TrimSpace(req.Name), StartDate: start, EndDate: end, Active: true}
		if err := openPeriod(ctx, repos.Periods, next); err != nil {
			return err
		}

		transition = &models.PeriodTransition{AdvancedCount: advanced, ClosedPeriod: current, NewPeriod: next}
		if len(req.CloneGroupIDs) > 0 {
			cloned, err := cloneGroups(ctx, repos.Groups, req.CloneGroupIDs, next)
			if err != nil {
				return err
			}
			transition.ClonedGroups = cloned.Groups
			transition.SkippedGroupIDs = cloned.SkippedGroupIDs
		}
		return nil
	})
	if err != nil {
		return nil, periodWriteError(err, "failed to close period")
	}

	s.metrics.RecordPeriodTransition("close")
	s.metrics.RecordSemesterAdvance(transition.AdvancedCount, len(transition.ClonedGroups))
	s.logger.Info("period closed",
		zap.String("closed_period_id", transition.ClosedPeriod.ID),
		zap.String("new_period_id", transition.NewPeriod.ID),
		zap.Int("advanced_count", transition.AdvancedCount),
		zap.Int("cloned_groups", len(transition.ClonedGroups)),
	)
	s.cache.InvalidateStatistics(ctx)
	return transition, nil
}

// CloneGroupsToNewPeriod copies groups into the active target period with semester + 1.
func (s *ProgressionService) CloneGroupsToNewPeriod(ctx context.Context, req CloneGroupsRequest) (*models.CloneResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clone payload")
	}
	var result *models.CloneResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		target, err := repos.Periods.FindByIDForUpdate(ctx, req.PeriodID)
		if err != nil {
			return notFoundOr(err, "target period not found", "failed to load target period")
		}
		if !target.Active {
			return appErrors.Clone(appErrors.ErrForbidden, "groups can only be created in the active period")
		}
		result, err = cloneGroups(ctx, repos.Groups, req.GroupIDs, target)
		return err
	})
	if err != nil {
		return nil, asAppError(err, "failed to clone groups")
	}
	s.metrics.RecordSemesterAdvance(0, len(result.Groups))
	return result, nil
}

// advanceEnrolledStudents bumps the semester of every student enrolled in periodID, capped at
// models.MaxSemester, and returns how many students changed.
func advanceEnrolledStudents(ctx context.Context, repos Repos, periodID string) (int, error) {
	enrollments, err := repos.Enrollments.ListByPeriod(ctx, periodID)
	if err != nil {
		return 0, err
	}
	advanced := 0
	for _, enrollment := range enrollments {
		student, err := repos.Students.FindByIDForUpdate(ctx, enrollment.StudentID)
		if err != nil {
			return 0, err
		}
		next := student.CurrentSemester + 1
		if next > models.MaxSemester {
			continue
		}
		if err := repos.Students.UpdateSemester(ctx, student.ID, next); err != nil {
			return 0, err
		}
		advanced++
	}
	return advanced, nil
}

// cloneGroups creates one group per source in target with the next semester. Sources already in
// the last semester have no successor and are reported as skipped.
func cloneGroups(ctx context.Context, groups groupStore, ids []string, target *models.Period) (*models.CloneResult, error) {
	result := &models.CloneResult{Groups: []models.Group{}}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		source, err := groups.FindByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "group "+id+" not found", "failed to load group")
		}
		if source.PeriodID == target.ID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "group "+id+" already belongs to the target period")
		}
		if source.Semester >= models.MaxSemester {
			result.SkippedGroupIDs = append(result.SkippedGroupIDs, source.ID)
			continue
		}
		clone := models.Group{
			Name:        source.Name,
			Semester:    source.Semester + 1,
			Program:     source.Program,
			PeriodID:    target.ID,
			TutorID:     source.TutorID,
			MaxCapacity: source.MaxCapacity,
		}
		if err := groups.Create(ctx, &clone); err != nil {
			return nil, err
		}
		result.Groups = append(result.Groups, clone)
	}
	return result, nil
}
