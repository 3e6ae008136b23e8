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

const groupColumns = `g.id, g.name, g.semester, g.program, g.period_id, g.tutor_id, g.max_capacity, g.created_at, g.updated_at`

// GroupRepository handles persistence for groups.
type GroupRepository struct {
	db DBTX
}

// NewGroupRepository instantiates a group repository.
func NewGroupRepository(db DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns groups with tutor name and head count, ordered by program, semester and name.
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.PeriodID != "" {
		conditions = append(conditions, fmt.Sprintf("g.period_id = $%d", len(args)+1))
		args = append(args, filter.PeriodID)
	}
	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("g.tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("g.program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("g.semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}

	query := `SELECT ` + groupColumns + `,
	u.full_name AS tutor_name,
	(SELECT COUNT(*) FROM enrollments e WHERE e.group_id = g.id AND e.period_id = g.period_id) AS enrolled_count
FROM groups g
LEFT JOIN users u ON u.id = g.tutor_id`
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY g.program, g.semester, g.name"

	var groups []models.GroupDetail
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindByID loads a group by identifier.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	return r.get(ctx, "find group", `SELECT `+groupColumns+` FROM groups g WHERE g.id = $1`, id)
}

// FindByIDForUpdate loads and row-locks a group. Enrollment writes into the group serialize on this lock.
func (r *GroupRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Group, error) {
	return r.get(ctx, "lock group", `SELECT `+groupColumns+` FROM groups g WHERE g.id = $1 FOR UPDATE`, id)
}

func (r *GroupRepository) get(ctx context.Context, op, query string, args ...interface{}) (*models.Group, error) {
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &group, nil
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	const query = `INSERT INTO groups (id, name, semester, program, period_id, tutor_id, max_capacity, created_at, updated_at) VALUES (:id, :name, :semester, :program, :period_id, :tutor_id, :max_capacity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return writeError("create group", err)
	}
	return nil
}

// Update modifies the mutable fields of a group.
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE groups SET name = :name, semester = :semester, program = :program, tutor_id = :tutor_id, max_capacity = :max_capacity, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return writeError("update group", err)
	}
	return nil
}

// Delete removes a group. Enrollments referencing it block the delete at the storage level.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		return writeError("delete group", err)
	}
	return nil
}
