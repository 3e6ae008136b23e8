package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type referralStore interface {
	Create(ctx context.Context, referral *models.Referral) error
	FindByID(ctx context.Context, id string) (*models.ReferralDetail, error)
	List(ctx context.Context, filter models.ReferralFilter) ([]models.ReferralDetail, int, error)
	UpdateStatus(ctx context.Context, id string, status models.ReferralStatus, attendedAt *time.Time) error
}

// CreateReferralRequest holds payload for routing a student to a support area.
type CreateReferralRequest struct {
	StudentID    string  `json:"student_id" validate:"required"`
	TargetArea   string  `json:"target_area" validate:"required,max=100"`
	Reason       string  `json:"reason" validate:"required,max=2000"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
	ReferralDate string  `json:"referral_date" validate:"omitempty,datetime=2006-01-02"`
}

// ReferralStatusRequest updates the follow up state of a referral.
type ReferralStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendiente en_seguimiento atendida"`
}

// ReferralService manages referrals (canalizaciones).
type ReferralService struct {
	repos     Repos
	referrals referralStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReferralService constructs a ReferralService.
func NewReferralService(repos Repos, referrals referralStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReferralService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferralService{repos: repos, referrals: referrals, cache: cache, validator: validate, logger: logger}
}

// Create registers a pending referral authored by tutorID.
func (s *ReferralService) Create(ctx context.Context, scope models.Scope, tutorID string, req CreateReferralRequest) (*models.ReferralDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid referral payload")
	}
	if _, err := ensureStudentVisible(ctx, s.repos, scope, req.StudentID); err != nil {
		return nil, err
	}
	referral := &models.Referral{
		StudentID:  req.StudentID,
		TargetArea: req.TargetArea,
		Reason:     req.Reason,
		Notes:      trimOptional(req.Notes),
		Status:     models.ReferralPending,
	}
	if tutorID != "" {
		referral.TutorID = &tutorID
	}
	if req.ReferralDate != "" {
		date, err := time.Parse(dateLayout, req.ReferralDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid referral_date")
		}
		referral.ReferralDate = date
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create referral")
	}
	s.cache.InvalidateStatistics(ctx)

	detail, err := s.referrals.FindByID(ctx, referral.ID)
	if err != nil {
		return nil, notFoundOr(err, "referral not found", "failed to load referral")
	}
	return detail, nil
}

// List returns scoped referrals, newest first.
func (s *ReferralService) List(ctx context.Context, scope models.Scope, filter models.ReferralFilter) ([]models.ReferralDetail, *models.Pagination, error) {
	if filter.PageSize < 0 {
		filter.PageSize = 0
	}
	items, total, err := s.list(ctx, scope, filter)
	if err != nil {
		return nil, nil, err
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// ListAll returns every scoped referral matching filter, ignoring pagination.
func (s *ReferralService) ListAll(ctx context.Context, scope models.Scope, filter models.ReferralFilter) ([]models.ReferralDetail, error) {
	filter.PageSize = -1
	items, _, err := s.list(ctx, scope, filter)
	return items, err
}

func (s *ReferralService) list(ctx context.Context, scope models.Scope, filter models.ReferralFilter) ([]models.ReferralDetail, int, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
	}
	filter.Scope = scope
	filter.PeriodID = ""
	if scope.NeedsActivePeriod() {
		active, err := s.repos.Periods.FindActive(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return []models.ReferralDetail{}, 0, nil
		}
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period")
		}
		filter.PeriodID = active.ID
	}
	items, total, err := s.referrals.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list referrals")
	}
	if items == nil {
		items = []models.ReferralDetail{}
	}
	return items, total, nil
}

// UpdateStatus records follow up progress. Attended referrals are terminal.
func (s *ReferralService) UpdateStatus(ctx context.Context, scope models.Scope, id string, req ReferralStatusRequest) (*models.ReferralDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid referral status")
	}
	referral, err := s.referrals.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "referral not found", "failed to load referral")
	}
	if _, err := ensureStudentVisible(ctx, s.repos, scope, referral.StudentID); err != nil {
		return nil, err
	}
	if referral.Status == models.ReferralAttended {
		return nil, appErrors.Clone(appErrors.ErrConflict, "referral has already been attended")
	}

	status := models.ReferralStatus(req.Status)
	var attendedAt *time.Time
	if status == models.ReferralAttended {
		now := nowUTC()
		attendedAt = &now
	}
	if err := s.referrals.UpdateStatus(ctx, id, status, attendedAt); err != nil {
		return nil, notFoundOr(err, "referral not found", "failed to update referral")
	}
	referral.Status = status
	referral.AttendedAt = attendedAt
	referral.UpdatedAt = nowUTC()
	s.cache.InvalidateStatistics(ctx)
	return referral, nil
}
