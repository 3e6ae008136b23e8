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

const periodColumns = `id, name, start_date, end_date, active, created_at, updated_at`

// PeriodRepository handles persistence for academic periods.
type PeriodRepository struct {
	db DBTX
}

// NewPeriodRepository instantiates a period repository.
func NewPeriodRepository(db DBTX) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// List returns periods matching filters, newest first.
func (r *PeriodRepository) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, int, error) {
	base := "FROM periods WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	size, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY start_date DESC LIMIT %d OFFSET %d", periodColumns, base, size, offset)

	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list periods: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count periods: %w", err)
	}
	return periods, total, nil
}

// FindByID loads a period by identifier.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	return r.get(ctx, "find period", `SELECT `+periodColumns+` FROM periods WHERE id = $1`, id)
}

// FindByIDForUpdate loads and row-locks a period. Only meaningful inside a transaction.
func (r *PeriodRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Period, error) {
	return r.get(ctx, "lock period", `SELECT `+periodColumns+` FROM periods WHERE id = $1 FOR UPDATE`, id)
}

// FindActive returns the active period or sql.ErrNoRows.
func (r *PeriodRepository) FindActive(ctx context.Context) (*models.Period, error) {
	return r.get(ctx, "find active period", `SELECT `+periodColumns+` FROM periods WHERE active = TRUE LIMIT 1`)
}

// FindActiveForShare returns the active period holding a share lock until the transaction ends.
// Closing the period locks the same row FOR UPDATE and so waits for those holders.
func (r *PeriodRepository) FindActiveForShare(ctx context.Context) (*models.Period, error) {
	return r.get(ctx, "share active period", `SELECT `+periodColumns+` FROM periods WHERE active = TRUE LIMIT 1 FOR SHARE`)
}

func (r *PeriodRepository) get(ctx context.Context, op, query string, args ...interface{}) (*models.Period, error) {
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &period, nil
}

// ExistsByName checks whether another period already uses name.
func (r *PeriodRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM periods WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check period name: %w", err)
	}
	return true, nil
}

// Create inserts a period.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	const query = `INSERT INTO periods (id, name, start_date, end_date, active, created_at, updated_at) VALUES (:id, :name, :start_date, :end_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return writeError("create period", err)
	}
	return nil
}

// Update modifies name and dates of a period. The active flag is owned by Activate/Deactivate.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period) error {
	period.UpdatedAt = time.Now().UTC()
	const query = `UPDATE periods SET name = :name, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return writeError("update period", err)
	}
	return nil
}

// DeactivateAll clears the active flag on every period except exceptID.
func (r *PeriodRepository) DeactivateAll(ctx context.Context, exceptID string) (int64, error) {
	query := `UPDATE periods SET active = FALSE, updated_at = $1 WHERE active = TRUE`
	args := []interface{}{time.Now().UTC()}
	if exceptID != "" {
		query += " AND id <> $2"
		args = append(args, exceptID)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivate periods: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate periods rows affected: %w", err)
	}
	return n, nil
}

// Activate sets the active flag on id. A concurrent activation surfaces as a unique violation.
func (r *PeriodRepository) Activate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE periods SET active = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return writeError("activate period", err)
	}
	return affectedOrNotFound(res, "activate period")
}

// Deactivate clears the active flag on id.
func (r *PeriodRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE periods SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate period: %w", err)
	}
	return affectedOrNotFound(res, "deactivate period")
}

// Delete removes a period permanently.
func (r *PeriodRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM periods WHERE id = $1`, id); err != nil {
		return writeError("delete period", err)
	}
	return nil
}

// CountGroups returns the number of groups owned by the period.
func (r *PeriodRepository) CountGroups(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM groups WHERE period_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count period groups: %w", err)
	}
	return count, nil
}
