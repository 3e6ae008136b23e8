package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tutoring-api/internal/models"
)

const alertColumns = `id, student_id, type, description, absence_days, failed_subjects, status, created_by, alert_date, created_at, updated_at`

// AlertRepository persists student alerts.
type AlertRepository struct {
	db DBTX
}

// NewAlertRepository constructs an AlertRepository.
func NewAlertRepository(db DBTX) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts an alert.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if alert.AlertDate.IsZero() {
		alert.AlertDate = now
	}
	alert.CreatedAt = now
	alert.UpdatedAt = now
	const query = `INSERT INTO alerts (id, student_id, type, description, absence_days, failed_subjects, status, created_by, alert_date, created_at, updated_at) VALUES (:id, :student_id, :type, :description, :absence_days, :failed_subjects, :status, :created_by, :alert_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, alert); err != nil {
		return writeError("create alert", err)
	}
	return nil
}

// FindByID loads an alert.
func (r *AlertRepository) FindByID(ctx context.Context, id string) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.GetContext(ctx, &alert, "SELECT "+alertColumns+" FROM alerts WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &alert, nil
}

// ListByStudent returns a student's alerts, newest first.
func (r *AlertRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := r.db.SelectContext(ctx, &alerts, "SELECT "+alertColumns+" FROM alerts WHERE student_id = $1 ORDER BY alert_date DESC", studentID); err != nil {
		return nil, fmt.Errorf("list student alerts: %w", err)
	}
	return alerts, nil
}

// UpdateStatus changes the workflow state of an alert.
func (r *AlertRepository) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE alerts SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC())
	if err != nil {
		return writeError("update alert status", err)
	}
	return affectedOrNotFound(res, "update alert status")
}
