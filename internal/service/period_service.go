package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// CreatePeriodRequest describes a new period.
type CreatePeriodRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Activate  bool   `json:"activate"`
}

// UpdatePeriodRequest changes name or dates of a period. Empty fields are kept.
type UpdatePeriodRequest struct {
	Name      string `json:"name" validate:"omitempty,max=100"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// PeriodService owns the period registry and its single active period.
type PeriodService struct {
	periods   periodStore
	tx        TxRunner
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(periods periodStore, tx TxRunner, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{periods: periods, tx: tx, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns periods newest first.
func (s *PeriodService) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, *models.Pagination, error) {
	periods, total, err := s.periods.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single period.
func (s *PeriodService) Get(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "period not found", "failed to load period")
	}
	return period, nil
}

// GetActive returns the active period or a NO_ACTIVE_PERIOD error.
func (s *PeriodService) GetActive(ctx context.Context) (*models.Period, error) {
	return requireActivePeriod(ctx, s.periods)
}

// Create inserts a period and optionally makes it the active one.
func (s *PeriodService) Create(ctx context.Context, req CreatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}
	start, end, err := parsePeriodDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	period := &models.Period{Name: strings.TrimSpace(req.Name), StartDate: start, EndDate: end, Active: req.Activate}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		return openPeriod(ctx, repos.Periods, period)
	})
	if err != nil {
		return nil, periodWriteError(err, "failed to create period")
	}
	if period.Active {
		s.afterTransition(ctx, "activate", period)
	}
	return period, nil
}

// Activate makes id the only active period. Deactivation of the previous period and activation of
// the new one commit together.
func (s *PeriodService) Activate(ctx context.Context, id string) (*models.Period, error) {
	var period *models.Period
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos Repos) error {
		p, err := repos.Periods.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "period not found", "failed to load period")
		}
		if _, err := repos.Periods.DeactivateAll(ctx, p.ID); err != nil {
			return err
		}
		if !p.Active {
			if err := repos.Periods.Activate(ctx, p.ID); err != nil {
				return err
			}
			p.Active = true
		}
		period = p
		return nil
	})
	if err != nil {
		return nil, periodWriteError(err, "failed to activate period")
	}
	s.afterTransition(ctx, "activate", period)
	return period, nil
}

// Update changes name or dates. An active period that already owns groups cannot be edited.
func (s *PeriodService) Update(ctx context.Context, id string, req UpdatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "period not found", "failed to load period")
	}
	if period.Active {
		groups, err := s.periods.CountGroups(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count period groups")
		}
		if groups > 0 {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "active period with groups cannot be modified")
		}
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		period.Name = name
	}
	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start_date")
		}
		period.StartDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end_date")
		}
		period.EndDate = end
	}
	if !period.StartDate.Before(period.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}

	exists, err := s.periods.ExistsByName(ctx, period.Name, period.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate period name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "period name already exists")
	}
	if err := s.periods.Update(ctx, period); err != nil {
		return nil, periodWriteError(err, "failed to update period")
	}
	return period, nil
}

// Delete removes an inactive period without groups.
func (s *PeriodService) Delete(ctx context.Context, id string) error {
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "period not found", "failed to load period")
	}
	if period.Active {
		return appErrors.Clone(appErrors.ErrForbidden, "active period cannot be deleted")
	}
	groups, err := s.periods.CountGroups(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count period groups")
	}
	if groups > 0 {
		return appErrors.Clone(appErrors.ErrForbidden, "period with groups cannot be deleted")
	}
	if err := s.periods.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return appErrors.Clone(appErrors.ErrForbidden, "period is still referenced")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete period")
	}
	return nil
}

func (s *PeriodService) afterTransition(ctx context.Context, action string, period *models.Period) {
	s.metrics.RecordPeriodTransition(action)
	s.logger.Info("period activated", zap.String("period_id", period.ID), zap.String("name", period.Name))
	s.cache.InvalidateStatistics(ctx)
}

// openPeriod inserts period inside the caller's transaction. When the period is active every other
// period is deactivated first so the single active row constraint holds at commit.
func openPeriod(ctx context.Context, periods periodStore, period *models.Period) error {
	if !period.StartDate.Before(period.EndDate) {
		return appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}
	exists, err := periods.ExistsByName(ctx, period.Name, "")
	if err != nil {
		return err
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "period name already exists")
	}
	if period.Active {
		if _, err := periods.DeactivateAll(ctx, ""); err != nil {
			return err
		}
	}
	return periods.Create(ctx, period)
}

func parsePeriodDates(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start_date")
	}
	end, err := time.Parse(dateLayout, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end_date")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}
	return start, end, nil
}

// periodWriteError maps storage constraint failures of period writes to domain errors.
func periodWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrUniqueViolation):
		if repository.ConstraintName(err) == "periods_single_active_idx" {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "another period was activated concurrently")
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "period name already exists")
	case errors.Is(err, repository.ErrCheckViolation):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_date must be before end_date")
	}
	return asAppError(err, message)
}
