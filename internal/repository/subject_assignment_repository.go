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

// SubjectAssignmentRepository persists the subjects each student takes per period.
type SubjectAssignmentRepository struct {
	db DBTX
}

// NewSubjectAssignmentRepository constructs the repository.
func NewSubjectAssignmentRepository(db DBTX) *SubjectAssignmentRepository {
	return &SubjectAssignmentRepository{db: db}
}

// CountForSemester counts a student's assignments in a period and semester.
func (r *SubjectAssignmentRepository) CountForSemester(ctx context.Context, studentID, periodID string, semester int) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM subject_assignments WHERE student_id = $1 AND period_id = $2 AND semester = $3`
	if err := r.db.GetContext(ctx, &count, query, studentID, periodID, semester); err != nil {
		return 0, fmt.Errorf("count subject assignments: %w", err)
	}
	return count, nil
}

// ListSubjectIDs returns the subject IDs already assigned to a student in a period.
func (r *SubjectAssignmentRepository) ListSubjectIDs(ctx context.Context, studentID, periodID string) ([]string, error) {
	var ids []string
	const query = `SELECT subject_id FROM subject_assignments WHERE student_id = $1 AND period_id = $2`
	if err := r.db.SelectContext(ctx, &ids, query, studentID, periodID); err != nil {
		return nil, fmt.Errorf("list assigned subjects: %w", err)
	}
	return ids, nil
}

// Insert stores an assignment unless the subject is already assigned for the period.
// It reports whether a row was written.
func (r *SubjectAssignmentRepository) Insert(ctx context.Context, assignment *models.SubjectAssignment) (bool, error) {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	const query = `INSERT INTO subject_assignments (id, student_id, subject_id, period_id, semester, grade, created_at, updated_at)
VALUES (:id, :student_id, :subject_id, :period_id, :semester, :grade, :created_at, :updated_at)
ON CONFLICT (student_id, subject_id, period_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, assignment)
	if err != nil {
		return false, writeError("insert subject assignment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert subject assignment rows affected: %w", err)
	}
	return n > 0, nil
}

// List returns a student's assignments with subject names.
func (r *SubjectAssignmentRepository) List(ctx context.Context, filter models.SubjectAssignmentFilter) ([]models.SubjectAssignment, error) {
	query := `SELECT sa.id, sa.student_id, sa.subject_id, sub.name AS subject_name, sa.period_id, sa.semester, sa.grade, sa.created_at, sa.updated_at
FROM subject_assignments sa
JOIN subjects sub ON sub.id = sa.subject_id
WHERE sa.student_id = $1`
	args := []interface{}{filter.StudentID}
	if filter.PeriodID != "" {
		args = append(args, filter.PeriodID)
		query += fmt.Sprintf(" AND sa.period_id = $%d", len(args))
	}
	if filter.Semester != nil {
		args = append(args, *filter.Semester)
		query += fmt.Sprintf(" AND sa.semester = $%d", len(args))
	}
	query += "\nORDER BY sa.semester, sub.name"

	var items []models.SubjectAssignment
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list subject assignments: %w", err)
	}
	return items, nil
}

// FindByID loads an assignment.
func (r *SubjectAssignmentRepository) FindByID(ctx context.Context, id string) (*models.SubjectAssignment, error) {
	const query = `SELECT sa.id, sa.student_id, sa.subject_id, sub.name AS subject_name, sa.period_id, sa.semester, sa.grade, sa.created_at, sa.updated_at
FROM subject_assignments sa
JOIN subjects sub ON sub.id = sa.subject_id
WHERE sa.id = $1`
	var item models.SubjectAssignment
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find subject assignment: %w", err)
	}
	return &item, nil
}

// UpdateGrade sets or clears a grade.
func (r *SubjectAssignmentRepository) UpdateGrade(ctx context.Context, id string, grade *float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE subject_assignments SET grade = $2, updated_at = $3 WHERE id = $1`, id, grade, time.Now().UTC())
	if err != nil {
		return writeError("update grade", err)
	}
	return affectedOrNotFound(res, "update grade")
}

// Delete removes an assignment.
func (r *SubjectAssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subject_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject assignment: %w", err)
	}
	return affectedOrNotFound(res, "delete subject assignment")
}
