package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tutoring-api/internal/models"
)

const referralDetailSelect = `SELECT r.id, r.student_id, r.tutor_id, r.target_area, r.reason, r.notes, r.referral_date, r.status, r.attended_at, r.created_at, r.updated_at,
	s.control_number,
	TRIM(s.first_surname || ' ' || COALESCE(s.second_surname, '') || ' ' || s.first_name) AS student_name,
	u.full_name AS tutor_name
FROM referrals r
JOIN students s ON s.id = r.student_id
LEFT JOIN users u ON u.id = r.tutor_id`

// ReferralRepository persists referrals (canalizaciones).
type ReferralRepository struct {
	db DBTX
}

// NewReferralRepository constructs a ReferralRepository.
func NewReferralRepository(db DBTX) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create inserts a referral.
func (r *ReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	if referral.ID == "" {
		referral.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if referral.ReferralDate.IsZero() {
		referral.ReferralDate = now
	}
	referral.CreatedAt = now
	referral.UpdatedAt = now
	const query = `INSERT INTO referrals (id, student_id, tutor_id, target_area, reason, notes, referral_date, status, attended_at, created_at, updated_at) VALUES (:id, :student_id, :tutor_id, :target_area, :reason, :notes, :referral_date, :status, :attended_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, referral); err != nil {
		return writeError("create referral", err)
	}
	return nil
}

// FindByID loads a referral with names.
func (r *ReferralRepository) FindByID(ctx context.Context, id string) (*models.ReferralDetail, error) {
	var item models.ReferralDetail
	if err := r.db.GetContext(ctx, &item, referralDetailSelect+" WHERE r.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find referral: %w", err)
	}
	return &item, nil
}

// List returns referrals in scope. A PageSize below zero returns every row, which reports use.
func (r *ReferralRepository) List(ctx context.Context, filter models.ReferralFilter) ([]models.ReferralDetail, int, error) {
	var args []interface{}
	conditions := []string{"1=1"}
	if cond := scopeCondition(filter.Scope, "r.student_id", filter.PeriodID, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Area != "" {
		conditions = append(conditions, fmt.Sprintf("r.target_area = $%d", len(args)+1))
		args = append(args, filter.Area)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("r.referral_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("r.referral_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	query := referralDetailSelect + where + " ORDER BY r.referral_date DESC, r.created_at DESC"
	if filter.PageSize >= 0 {
		size, offset := pageBounds(filter.Page, filter.PageSize)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", size, offset)
	}

	var items []models.ReferralDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list referrals: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM referrals r"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count referrals: %w", err)
	}
	return items, total, nil
}

// UpdateStatus changes the status and attention timestamp of a referral.
func (r *ReferralRepository) UpdateStatus(ctx context.Context, id string, status models.ReferralStatus, attendedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE referrals SET status = $2, attended_at = $3, updated_at = $4 WHERE id = $1`, id, status, attendedAt, time.Now().UTC())
	if err != nil {
		return writeError("update referral status", err)
	}
	return affectedOrNotFound(res, "update referral status")
}
