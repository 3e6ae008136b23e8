package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type alertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
	FindByID(ctx context.Context, id string) (*models.Alert, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Alert, error)
	UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error
}

// CreateAlertRequest holds payload for raising an alert.
type CreateAlertRequest struct {
	StudentID      string  `json:"student_id" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=faltas_consecutivas materias_reprobadas riesgo_vital otro"`
	Description    *string `json:"description" validate:"omitempty,max=1000"`
	AbsenceDays    *int    `json:"absence_days" validate:"omitempty,min=0"`
	FailedSubjects *int    `json:"failed_subjects" validate:"omitempty,min=0"`
	AlertDate      string  `json:"alert_date" validate:"omitempty,datetime=2006-01-02"`
}

// AlertStatusRequest moves an alert through its workflow.
type AlertStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=activa atendida cerrada"`
}

// alertTransitions lists the states reachable from each non-terminal state.
var alertTransitions = map[models.AlertStatus][]models.AlertStatus{
	models.AlertStatusActive:   {models.AlertStatusAttended, models.AlertStatusClosed},
	models.AlertStatusAttended: {models.AlertStatusClosed},
}

// AlertService manages student risk alerts.
type AlertService struct {
	repos     Repos
	alerts    alertStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAlertService constructs an AlertService.
func NewAlertService(repos Repos, alerts alertStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AlertService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{repos: repos, alerts: alerts, cache: cache, validator: validate, logger: logger}
}

// Create raises a new active alert on behalf of createdBy.
func (s *AlertService) Create(ctx context.Context, scope models.Scope, createdBy string, req CreateAlertRequest) (*models.Alert, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alert payload")
	}
	if _, err := ensureStudentVisible(ctx, s.repos, scope, req.StudentID); err != nil {
		return nil, err
	}

	alert := &models.Alert{
		StudentID:      req.StudentID,
		Type:           models.AlertType(req.Type),
		Description:    trimOptional(req.Description),
		AbsenceDays:    req.AbsenceDays,
		FailedSubjects: req.FailedSubjects,
		Status:         models.AlertStatusActive,
	}
	if createdBy != "" {
		alert.CreatedBy = &createdBy
	}
	if req.AlertDate != "" {
		date, err := time.Parse(dateLayout, req.AlertDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alert_date")
		}
		alert.AlertDate = date
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create alert")
	}
	s.cache.InvalidateStatistics(ctx)
	return alert, nil
}

// ListByStudent returns the alerts of a visible student, newest first.
func (s *AlertService) ListByStudent(ctx context.Context, scope models.Scope, studentID string) ([]models.Alert, error) {
	if _, err := ensureStudentVisible(ctx, s.repos, scope, studentID); err != nil {
		return nil, err
	}
	alerts, err := s.alerts.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list alerts")
	}
	return alerts, nil
}

// UpdateStatus applies a workflow transition. Closed alerts are terminal.
func (s *AlertService) UpdateStatus(ctx context.Context, scope models.Scope, id string, req AlertStatusRequest) (*models.Alert, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alert status")
	}
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "alert not found", "failed to load alert")
	}
	if _, err := ensureStudentVisible(ctx, s.repos, scope, alert.StudentID); err != nil {
		return nil, err
	}

	target := models.AlertStatus(strings.ToLower(req.Status))
	if alert.Status == models.AlertStatusClosed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "alert is already closed")
	}
	if alert.Status == target {
		return alert, nil
	}
	if !alertTransitionAllowed(alert.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "alert cannot move from "+string(alert.Status)+" to "+string(target))
	}
	if err := s.alerts.UpdateStatus(ctx, id, target); err != nil {
		return nil, notFoundOr(err, "alert not found", "failed to update alert")
	}
	alert.Status = target
	alert.UpdatedAt = nowUTC()
	s.cache.InvalidateStatistics(ctx)
	return alert, nil
}

func alertTransitionAllowed(from, to models.AlertStatus) bool {
	for _, next := range alertTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
